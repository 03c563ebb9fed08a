// Package migrations はコース予約APIのSQLマイグレーションファイルを埋め込む。
package migrations

import "embed"

// FS はマイグレーションファイル一式。ルート直下に *.up.sql が並ぶ。
//
//go:embed *.sql
var FS embed.FS
