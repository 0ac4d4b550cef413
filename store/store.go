// Package store 提供 core.Store 的实现：进程内 MemoryStore 与 RedisStore。
//
//	var s core.Store = store.NewMemoryStore()
package store
