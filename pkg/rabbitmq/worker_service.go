package rabbitmq

// WorkerService is a long-running background service started by the
// application runtime, typically wrapping a consumer loop.
type WorkerService interface {
	GetServiceName() string
	StartService()
}
