package formula

// DefaultRegistry builds the registry shipped with every new Engine: the
// representative set from spec §4.4 plus every category SPEC_FULL.md §10
// supplements (math, text, logical, lookup/dynamic-array, statistical,
// date/time, information, lambda/higher-order).
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerCoreFunctions(r)
	registerMathFunctions(r)
	registerTextFunctions(r)
	registerLogicalFunctions(r)
	registerLookupFunctions(r)
	registerStatFunctions(r)
	registerDateTimeFunctions(r)
	registerInfoFunctions(r)
	registerLambdaFunctions(r)
	return r
}
