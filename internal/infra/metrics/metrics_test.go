package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLookup_CountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(lookupsTotal.WithLabelValues("found"))
	ObserveLookup(" Found ", 12*time.Millisecond)
	ObserveLookup("found", 3*time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(lookupsTotal.WithLabelValues("found")))
}

func TestIncReply_Labels(t *testing.T) {
	okBefore := testutil.ToFloat64(telegramRepliesTotal.WithLabelValues("ok"))
	failBefore := testutil.ToFloat64(telegramRepliesTotal.WithLabelValues("failed"))
	IncReply(true)
	IncReply(false)
	IncReply(false)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(telegramRepliesTotal.WithLabelValues("ok")))
	assert.Equal(t, failBefore+2, testutil.ToFloat64(telegramRepliesTotal.WithLabelValues("failed")))
}

func TestSetStoreUp(t *testing.T) {
	SetStoreUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(storeUp))
	SetStoreUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(storeUp))
}

func TestRegister_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// a second registration of the same collectors must be rejected
	assert.Error(t, Register(reg))
}

func TestMustRegister_DefaultRegistryOnce(t *testing.T) {
	require.NotPanics(t, MustRegister)
	require.NotPanics(t, MustRegister)

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["document_store_up"])
}
