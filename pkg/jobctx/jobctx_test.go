package jobctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	intctx "github.com/jdziat/simple-sequential-jobs/pkg/internal/context"
)

func TestFromContext_InsideJob(t *testing.T) {
	ctx := intctx.WithJobContext(context.Background(), &intctx.JobContext{
		QueueID: "api",
		JobName: "fetch-users",
		Attempt: 2,
	})

	assert.True(t, InJob(ctx))
	assert.Equal(t, "api", QueueIDFromContext(ctx))
	assert.Equal(t, "fetch-users", JobNameFromContext(ctx))
	assert.Equal(t, 2, AttemptFromContext(ctx))
}

func TestFromContext_OutsideJob(t *testing.T) {
	ctx := context.Background()

	assert.False(t, InJob(ctx))
	assert.Empty(t, QueueIDFromContext(ctx))
	assert.Empty(t, JobNameFromContext(ctx))
	assert.Equal(t, 0, AttemptFromContext(ctx))
}
