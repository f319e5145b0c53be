package cacheid

// Config is the per deployment configuration of a Strategy.
type Config struct {
	// RootEntityTypes lists the schema types that are returned by root fields
	// and act as singletons in the cache, e.g. namespace types like "PlannerQuery".
	// Root field values of these types are seeded with their type name.
	RootEntityTypes []string `mapstructure:"rootEntityTypes" yaml:"rootEntityTypes"`
}
