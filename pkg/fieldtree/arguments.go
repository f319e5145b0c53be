package fieldtree

import (
	"encoding/json"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/wundergraph/graphql-cacheid/pkg/canonicalvariables"
)

// ResolveArguments resolves every argument of a field against the variables
// of the operation and returns the canonical argument mapping.
// An argument referencing a variable without a value is left out, inside
// lists it resolves to null.
func ResolveArguments(arguments ast.ArgumentList, variables map[string]interface{}) canonicalvariables.Map {
	resolved := make(map[string]interface{}, len(arguments))
	for _, argument := range arguments {
		if argument == nil {
			continue
		}
		if value, ok := resolveValue(argument.Value, variables); ok {
			resolved[argument.Name] = value
		}
	}
	return canonicalvariables.Canonicalize(resolved)
}

// VariablesWithDefaults returns variables completed by the default values of
// definitions. A variable supplied as null keeps null. variables itself is
// never modified.
func VariablesWithDefaults(definitions ast.VariableDefinitionList, variables map[string]interface{}) map[string]interface{} {
	var out map[string]interface{}
	for _, definition := range definitions {
		if definition == nil || definition.DefaultValue == nil {
			continue
		}
		if _, supplied := variables[definition.Variable]; supplied {
			continue
		}
		value, ok := resolveValue(definition.DefaultValue, nil)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]interface{}, len(variables)+1)
			for name, variable := range variables {
				out[name] = variable
			}
		}
		out[definition.Variable] = value
	}
	if out == nil {
		return variables
	}
	return out
}

// resolveValue reports false for a variable reference without a value.
func resolveValue(value *ast.Value, variables map[string]interface{}) (interface{}, bool) {
	if value == nil {
		return nil, true
	}

	switch value.Kind {
	case ast.Variable:
		variable, ok := variables[value.Raw]
		if !ok {
			return nil, false
		}
		return canonicalvariables.Value(variable), true
	case ast.ObjectValue:
		fields := make(map[string]interface{}, len(value.Children))
		for _, child := range value.Children {
			if field, ok := resolveValue(child.Value, variables); ok {
				fields[child.Name] = field
			}
		}
		return canonicalvariables.Canonicalize(fields), true
	case ast.ListValue:
		items := make([]interface{}, 0, len(value.Children))
		for _, child := range value.Children {
			item, _ := resolveValue(child.Value, variables)
			items = append(items, item)
		}
		return items, true
	case ast.IntValue, ast.FloatValue:
		return json.Number(value.Raw), true
	case ast.BooleanValue:
		return value.Raw == "true", true
	case ast.NullValue:
		return nil, true
	default:
		// StringValue, BlockValue, EnumValue
		return value.Raw, true
	}
}
