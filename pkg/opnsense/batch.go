package opnsense

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opnsense-go/opnsense/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidDataTypeAlias     = errors.New("invalid data type for alias operation")
	ErrInvalidDataTypeRule      = errors.New("invalid data type for rule operation")
	ErrInvalidDataTypeSubnet    = errors.New("invalid data type for subnet operation")
	ErrInvalidDataTypeRes       = errors.New("invalid data type for reservation operation")
)

// UpdateDataWrapper pairs an update payload with the UUID it targets.
type UpdateDataWrapper[T any] struct {
	UUID    string
	Request *T
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "add", "set", "del", "get"
	Resource string // "alias", "rule", "kea_subnet", "kea_reservation"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor executes grouped firewall mutations with bounded concurrency.
// Remember to apply (filter rules) or reconfigure (aliases, Kea) afterwards;
// the executor only stages configuration changes.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in operation
// order regardless of completion order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{
		ID: operation.ID,
	}

	switch operation.Resource {
	case "alias":
		result = b.executeAliasOperation(ctx, operation)
	case "rule":
		result = b.executeRuleOperation(ctx, operation)
	case "kea_subnet":
		result = b.executeSubnetOperation(ctx, operation)
	case "kea_reservation":
		result = b.executeReservationOperation(ctx, operation)
	default:
		result.Success = false
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)
	}

	return result
}

// handleCrudOperation is a helper that handles the common add/set/del/get pattern.
func handleCrudOperation(
	operation BatchOperation,
	addFunc func() (interface{}, error),
	setFunc func() (interface{}, error),
	delFunc func() (interface{}, error),
	getFunc func() (interface{}, error),
) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	switch operation.Type {
	case "add":
		data, err := addFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "set":
		data, err := setFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "del":
		data, err := delFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "get":
		data, err := getFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	default:
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	return result
}

func (b *BatchExecutor) executeAliasOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	aliases := b.client.Firewall().Alias()

	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*AliasRequest); ok {
				return aliases.AddItem(ctx, req)
			}

			return nil, fmt.Errorf("%w add", ErrInvalidDataTypeAlias)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[AliasRequest]); ok {
				return aliases.SetItem(ctx, data.UUID, data.Request)
			}

			return nil, fmt.Errorf("%w set", ErrInvalidDataTypeAlias)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return aliases.DelItem(ctx, uuid)
			}

			return nil, fmt.Errorf("%w del", ErrInvalidDataTypeAlias)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return aliases.GetItem(ctx, uuid)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeAlias)
		},
	)
}

func (b *BatchExecutor) executeRuleOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	filter := b.client.Firewall().Filter()

	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*FilterRuleRequest); ok {
				return filter.AddRule(ctx, req)
			}

			return nil, fmt.Errorf("%w add", ErrInvalidDataTypeRule)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[FilterRuleRequest]); ok {
				return filter.SetRule(ctx, data.UUID, data.Request)
			}

			return nil, fmt.Errorf("%w set", ErrInvalidDataTypeRule)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return filter.DelRule(ctx, uuid)
			}

			return nil, fmt.Errorf("%w del", ErrInvalidDataTypeRule)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return filter.GetRule(ctx, uuid)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeRule)
		},
	)
}

func (b *BatchExecutor) executeSubnetOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	dhcpv4 := b.client.Kea().Dhcpv4()

	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if doc, ok := operation.Data.(Document); ok {
				return dhcpv4.AddSubnet(ctx, doc)
			}

			return nil, fmt.Errorf("%w add", ErrInvalidDataTypeSubnet)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[Document]); ok {
				return dhcpv4.SetSubnet(ctx, data.UUID, *data.Request)
			}

			return nil, fmt.Errorf("%w set", ErrInvalidDataTypeSubnet)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return dhcpv4.DelSubnet(ctx, uuid)
			}

			return nil, fmt.Errorf("%w del", ErrInvalidDataTypeSubnet)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return dhcpv4.GetSubnet(ctx, uuid)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeSubnet)
		},
	)
}

func (b *BatchExecutor) executeReservationOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	dhcpv4 := b.client.Kea().Dhcpv4()

	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if doc, ok := operation.Data.(Document); ok {
				return dhcpv4.AddReservation(ctx, doc)
			}

			return nil, fmt.Errorf("%w add", ErrInvalidDataTypeRes)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[Document]); ok {
				return dhcpv4.SetReservation(ctx, data.UUID, *data.Request)
			}

			return nil, fmt.Errorf("%w set", ErrInvalidDataTypeRes)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return dhcpv4.DelReservation(ctx, uuid)
			}

			return nil, fmt.Errorf("%w del", ErrInvalidDataTypeRes)
		},
		func() (interface{}, error) {
			if uuid, ok := operation.Data.(string); ok {
				return dhcpv4.GetReservation(ctx, uuid)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeRes)
		},
	)
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddAlias adds an alias creation operation.
func (b *BatchBuilder) AddAlias(id string, request *AliasRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "add",
		Resource: "alias",
		Data:     request,
	})

	return b
}

// SetAlias adds an alias update operation.
func (b *BatchBuilder) SetAlias(id, uuid string, request *AliasRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "set",
		Resource: "alias",
		Data: &UpdateDataWrapper[AliasRequest]{
			UUID:    uuid,
			Request: request,
		},
	})

	return b
}

// DelAlias adds an alias deletion operation.
func (b *BatchBuilder) DelAlias(id, uuid string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "del",
		Resource: "alias",
		Data:     uuid,
	})

	return b
}

// AddRule adds a filter rule creation operation.
func (b *BatchBuilder) AddRule(id string, request *FilterRuleRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "add",
		Resource: "rule",
		Data:     request,
	})

	return b
}

// SetRule adds a filter rule update operation.
func (b *BatchBuilder) SetRule(id, uuid string, request *FilterRuleRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "set",
		Resource: "rule",
		Data: &UpdateDataWrapper[FilterRuleRequest]{
			UUID:    uuid,
			Request: request,
		},
	})

	return b
}

// DelRule adds a filter rule deletion operation.
func (b *BatchBuilder) DelRule(id, uuid string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "del",
		Resource: "rule",
		Data:     uuid,
	})

	return b
}

// AddReservation adds a Kea reservation creation operation.
func (b *BatchBuilder) AddReservation(id string, reservation Document) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "add",
		Resource: "kea_reservation",
		Data:     reservation,
	})

	return b
}

// DelReservation adds a Kea reservation deletion operation.
func (b *BatchBuilder) DelReservation(id, uuid string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "del",
		Resource: "kea_reservation",
		Data:     uuid,
	})

	return b
}

// AddSubnet adds a Kea subnet creation operation.
func (b *BatchBuilder) AddSubnet(id string, subnet Document) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "add",
		Resource: "kea_subnet",
		Data:     subnet,
	})

	return b
}

// Build returns the accumulated operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}
