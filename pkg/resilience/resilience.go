package resilience

import (
	"context"

	"go.uber.org/zap"

	"walkydoggy/pkg/logger"
)

// ServiceResilience обеспечивает отказоустойчивость вызовов внешней системы:
// повторы внутри circuit breaker.
type ServiceResilience struct {
	serviceName    string
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// NewServiceResilience создает обертку с настройками по умолчанию.
func NewServiceResilience(serviceName string) *ServiceResilience {
	return NewServiceResilienceWithConfig(serviceName, DefaultCircuitBreakerConfig(), DefaultRetryConfig())
}

// NewServiceResilienceWithConfig создает обертку с явными настройками.
func NewServiceResilienceWithConfig(serviceName string, cb CircuitBreakerConfig, rc RetryConfig) *ServiceResilience {
	return &ServiceResilience{
		serviceName:    serviceName,
		circuitBreaker: NewCircuitBreaker(serviceName, cb),
		retry:          NewRetry(serviceName, rc),
	}
}

// Execute выполняет операцию с повторами под защитой circuit breaker.
func (r *ServiceResilience) Execute(ctx context.Context, operationName string, operation func(context.Context) error) error {
	logger.Log(ctx).Debug(ctx, "executing operation with resilience",
		zap.String("service", r.serviceName),
		zap.String("operation", operationName))

	return r.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return r.retry.Execute(ctx, operation)
	})
}

// State возвращает состояние circuit breaker.
func (r *ServiceResilience) State() CircuitState {
	return r.circuitBreaker.GetState()
}

// ExecuteWithResult выполняет операцию, возвращающую значение.
func ExecuteWithResult[T any](ctx context.Context, r *ServiceResilience, operationName string, operation func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, operationName, func(ctx context.Context) error {
		var err error
		result, err = operation(ctx)
		return err
	})
	return result, err
}
