// Package checks provides the builtin data-quality check implementations.
//
// Checks are grouped by the property they assert:
//   - nullity: expect_column_values_to_not_be_null
//   - numeric: expect_column_values_to_be_between
//   - set: expect_column_values_to_be_in_set
//   - schema: expect_column_values_to_be_of_type,
//     expect_table_columns_to_match_ordered_list
//   - uniqueness: expect_column_values_to_be_unique
//   - volume: expect_table_row_count_to_be_between
//   - string: expect_column_values_to_match_regex
//
// Each check registers itself with the global registry via init(). To make
// the builtins available, import this package with a blank identifier:
//
//	import _ "github.com/veristat-labs/veristat/pkg/check/checks"
package checks
