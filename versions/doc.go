/*
Package versions declares all schema versions of dashboard documents.

Every version only adds requirements. A version is never changed once
released, because documents stamped with its number were produced by it.

	1  results.pivot
	2  results.pivot_config
	3  datasource.custom_query
	4  results.show_date, results.date_group, results.fields, results.measures
	5  widget id
*/
package versions
