// Package api はコース予約APIのHTTPサーバーを提供する。
//
// ユーザー登録とログイン、コースの管理、受講登録のエンドポイントを持つ。
// 認証はBearerトークン、認可は管理者フラグで行い、
// 失敗レスポンスは全てエラーエンベロープに正規化される。
package api
