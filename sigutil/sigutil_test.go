package sigutil

import "testing"

func TestIgnoreAllSignalsIdempotent(t *testing.T) {
	// 只验证重复调用不 panic；信号处置本身无法在测试内可靠观测
	IgnoreAllSignals()
	IgnoreAllSignals()
}
