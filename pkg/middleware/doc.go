// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// アクセストークンの発行と検証を行うCodec、トークンを検証する認証ゲート
// （Authenticate）、管理者のみを通す認可ゲート（RequireAdmin）、
// 全ての失敗を共通のエラーエンベロープに変換するエラー正規化
// （RespondError / ErrorHandler）、パニックリカバリ、CORS設定を含む。
//
// ゲートは状態を持たず、トークンの検証にデータベースを参照しない。
// 認証・認可の失敗はゲート自身が固有の形式で応答し、エラー正規化には渡さない。
package middleware
