package enum

type BackendType string

const (
	BackendTypeFile   BackendType = "file"
	BackendTypeBadger BackendType = "badger"
	BackendTypeConsul BackendType = "consul"
	BackendTypeRedis  BackendType = "redis"
)

type StoreEventType string

const (
	StoreEventFlush StoreEventType = "flush"
)
