package migrations

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_NilDB(t *testing.T) {
	require.NoError(t, Run(nil))
}

func TestTables(t *testing.T) {
	require.Equal(t, []string{"cats", "user_favorites"}, Tables())
}
