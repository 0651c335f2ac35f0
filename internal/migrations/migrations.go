// Package migrations holds the SQL schema of the notification history.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
