package preflight_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports/mocks"
	"go.trai.ch/smush/internal/engine/preflight"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestCheck_AllFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().LookPath("optipng").Return("/usr/bin/optipng", nil)
	executor.EXPECT().LookPath("pngcrush").Return("/opt/tools/pngcrush", nil)

	tools, err := preflight.Check(context.Background(), executor, []string{"optipng", "pngcrush"})
	require.NoError(t, err)
	assert.Equal(t, []preflight.Tool{
		{Name: "optipng", Path: "/usr/bin/optipng"},
		{Name: "pngcrush", Path: "/opt/tools/pngcrush"},
	}, tools)
}

func TestCheck_ReportsMissing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	notFound := errors.New("executable file not found in $PATH")
	executor.EXPECT().LookPath("optipng").Return("/usr/bin/optipng", nil)
	executor.EXPECT().LookPath("pngnq").Return("", notFound)
	executor.EXPECT().LookPath("gifsicle").Return("", notFound)

	tools, err := preflight.Check(context.Background(), executor, []string{"optipng", "pngnq", "gifsicle"})
	require.ErrorIs(t, err, domain.ErrToolsMissing)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "gifsicle, pngnq", zErr.Metadata()["missing"])

	require.Len(t, tools, 3)
	assert.True(t, tools[0].Found())
	assert.False(t, tools[1].Found())
	assert.Equal(t, "gifsicle", tools[2].Name)
}

func TestCheck_Cancelled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := preflight.Check(ctx, executor, []string{"optipng"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheck_NoPrograms(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	tools, err := preflight.Check(context.Background(), mocks.NewMockExecutor(ctrl), nil)
	require.NoError(t, err)
	assert.Empty(t, tools)
}
