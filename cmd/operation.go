package cmd

import (
	"errors"
	"io/ioutil"

	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
	"github.com/wundergraph/graphql-cacheid/pkg/querydocument"
	"github.com/wundergraph/graphql-cacheid/pkg/responsejson"
)

const stdin = "-"

var errQueryOrRequest = errors.New("exactly one of --query and --request must be set")

// operationFlags are the flags shared by all commands working on one operation.
type operationFlags struct {
	queryFile     string
	requestFile   string
	variables     string
	operationName string
	fragmentName  string
	dataID        string
}

func (f *operationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.queryFile, "query", "q", "", "file holding the GraphQL document, - reads stdin")
	cmd.Flags().StringVarP(&f.requestFile, "request", "r", "", "file holding a GraphQL request body with query, operationName and variables, - reads stdin")
	cmd.Flags().StringVar(&f.variables, "variables", "", "operation variables as a JSON object, overrides the variables of --request")
	cmd.Flags().StringVarP(&f.operationName, "operation-name", "o", "", "operation to use if the document holds more than one")
	cmd.Flags().StringVarP(&f.fragmentName, "fragment-name", "f", "", "fragment to use for a fragment write")
	cmd.Flags().StringVar(&f.dataID, "data-id", cacheid.RootQuery, "cache key the result is written to: ROOT_QUERY, ROOT_MUTATION or an entity key like Book:1")
}

func (f *operationFlags) operation(cmd *cobra.Command) (cacheid.Operation, error) {
	if (f.queryFile == "") == (f.requestFile == "") {
		return cacheid.Operation{}, errQueryOrRequest
	}

	var request responsejson.Request
	if f.requestFile != "" {
		body, err := readInput(cmd, f.requestFile)
		if err != nil {
			return cacheid.Operation{}, err
		}
		request, err = responsejson.ReadRequest(body)
		if err != nil {
			return cacheid.Operation{}, err
		}
	} else {
		query, err := readInput(cmd, f.queryFile)
		if err != nil {
			return cacheid.Operation{}, err
		}
		request.Query = string(query)
	}

	if f.operationName != "" {
		request.OperationName = f.operationName
	}
	if f.variables != "" {
		variables, err := responsejson.ReadVariables([]byte(f.variables))
		if err != nil {
			return cacheid.Operation{}, err
		}
		request.Variables = variables
	}

	document, err := querydocument.Parse(request.Query)
	if err != nil {
		return cacheid.Operation{}, err
	}

	return cacheid.Operation{
		Document:      document,
		OperationName: request.OperationName,
		FragmentName:  f.fragmentName,
		Variables:     request.Variables,
		DataID:        f.dataID,
	}, nil
}

func readInput(cmd *cobra.Command, fileName string) ([]byte, error) {
	if fileName == stdin {
		return ioutil.ReadAll(cmd.InOrStdin())
	}
	return ioutil.ReadFile(fileName)
}
