package ports

import (
	"context"
	"iter"

	"github.com/aretw0/aura/pkg/domain"
)

// Runner drives one incremental run of the workflow.
//
// The returned sequence is lazy: the next node is only executed once the consumer asks for the
// next element. On failure it yields exactly one (zero Snapshot, err) pair and ends.
type Runner interface {
	Steps(ctx context.Context, query string) iter.Seq2[domain.Snapshot, error]
}
