// export_test.go exports private functions for white-box testing.
package logger

// CollectErrorEntriesExported and FormatErrorEntriesExported expose the
// private error formatting functions to logger_test.
var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
