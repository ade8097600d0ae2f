package delivery

import "context"

// Delivery is a long-running server started by the process
type Delivery interface {
	Serve(ctx context.Context) error
}
