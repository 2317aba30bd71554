package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	Register(r)
	// 重复注册不会 panic
	Register(r)
	assert.Equal(t, prometheus.Registerer(r), GetRegisterer())

	DescriptorsBuilt.WithLabelValues("Text").Inc()
	WireBytesWritten.Add(10)
	LoggingDroppedWrites.Inc()

	families, err := r.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["objwire_descriptors_built_total"])
	assert.True(t, names["objwire_wire_bytes_written_total"])
	assert.True(t, names["objwire_logging_dropped_writes_total"])
	assert.True(t, names["objwire_logging_pending_write_length"])
}
