package servers

import "context"

// Server は Manager が管理するサーバーのインターフェースを定義します。
// Start は ctx がキャンセルされるまでブロックし、正常終了時は nil を返します。
type Server interface {
	Start(ctx context.Context) error
	Name() string
}
