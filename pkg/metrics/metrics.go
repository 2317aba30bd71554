// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// objwireNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	objwireNamespace = "objwire"

	categoryLabelName = "category"
)

var (
	DescriptorsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: objwireNamespace,
			Name:      "descriptors_built_total",
			Help:      "number of type descriptors built, by category",
		}, []string{categoryLabelName})

	DescriptorFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: objwireNamespace,
			Name:      "descriptor_failures_total",
			Help:      "number of types whose descriptor construction failed",
		})

	ObjectsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: objwireNamespace,
			Name:      "objects_written_total",
			Help:      "number of objects written, by category (only when io.stats-written is on)",
		}, []string{categoryLabelName})

	WireBytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: objwireNamespace,
			Name:      "wire_bytes_written_total",
			Help:      "bytes flushed to underlying writers",
		})

	SplitterFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: objwireNamespace,
			Name:      "splitter_failures_total",
			Help:      "number of splitter destinations dropped after a failure",
		})

	registerOnce     sync.Once
	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标，重复调用只生效一次。
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(DescriptorsBuilt)
		r.MustRegister(DescriptorFailures)
		r.MustRegister(ObjectsWritten)
		r.MustRegister(WireBytesWritten)
		r.MustRegister(SplitterFailures)
		registerLoggingMetrics(r)
		metricRegisterer = r
	})
}
