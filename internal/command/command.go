package command

import "context"

// Client reads bot updates and answers commands until ctx is done.
type Client interface {
	HandleCommand(ctx context.Context) error
}
