package mock_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowser_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ tdassist.Browser = &mock.Browser{}
}

func TestBrowser_Click(t *testing.T) {
	t.Parallel()

	t.Run("delegates to ClickFn", func(t *testing.T) {
		t.Parallel()

		var gotSel string
		var gotWait time.Duration
		b := &mock.Browser{
			ClickFn: func(_ context.Context, selector string, awaitNav time.Duration) error {
				gotSel, gotWait = selector, awaitNav
				return nil
			},
		}

		err := b.Click(context.Background(), "#go", time.Second)

		require.NoError(t, err)
		assert.Equal(t, "#go", gotSel)
		assert.Equal(t, time.Second, gotWait)
	})

	t.Run("returns error from ClickFn", func(t *testing.T) {
		t.Parallel()

		b := &mock.Browser{
			ClickFn: func(context.Context, string, time.Duration) error {
				return tdassist.Errorf(tdassist.ENOTFOUND, "no element")
			},
		}

		err := b.Click(context.Background(), "#go", 0)

		require.Error(t, err)
		assert.Equal(t, tdassist.ENOTFOUND, tdassist.ErrorCode(err))
	})
}
