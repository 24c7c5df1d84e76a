/*
Package clubapi holds the JSON request and response bodies of the club
membership HTTP API.

Amounts are money.Amount values and travel as two-decimal strings
("49.00"). Calendar dates (due dates, payment dates, event dates) use the
YYYY-MM-DD form; timestamps are RFC 3339.

Every error response has the same shape:

	{"error": "permission_denied", "error_description": "permission denied: record_payment"}

Batch endpoints (bulk invite, CSV import) return 200 with a BatchResponse
itemising each input in order, even when some items failed.
*/
package clubapi
