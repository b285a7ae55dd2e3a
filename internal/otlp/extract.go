package otlp

import (
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
)

// MetricPoint is one numeric observation flattened out of an OTLP tree.
// A zero Time means the data point carried no timestamp.
type MetricPoint struct {
	Name  string
	Attrs map[string]string
	Time  time.Time
	Value float64
}

// Attr looks up a string attribute. An absent attribute is not an error.
func (p MetricPoint) Attr(key string) (string, bool) {
	v, ok := p.Attrs[key]
	return v, ok
}

// LogEvent is one log record reduced to its event identity and time.
type LogEvent struct {
	Name string
	Time time.Time
}

// ExtractPoints flattens resource→scope→metric trees into points. Sum and
// gauge data points are treated identically; interpreting cumulative versus
// delta semantics is the aggregator's job, keyed by metric name.
func ExtractPoints(mds []pmetric.Metrics) []MetricPoint {
	var points []MetricPoint
	for _, md := range mds {
		rms := md.ResourceMetrics()
		for i := 0; i < rms.Len(); i++ {
			sms := rms.At(i).ScopeMetrics()
			for j := 0; j < sms.Len(); j++ {
				ms := sms.At(j).Metrics()
				for k := 0; k < ms.Len(); k++ {
					m := ms.At(k)
					switch m.Type() {
					case pmetric.MetricTypeSum:
						points = appendNumberPoints(points, m.Name(), m.Sum().DataPoints())
					case pmetric.MetricTypeGauge:
						points = appendNumberPoints(points, m.Name(), m.Gauge().DataPoints())
					}
				}
			}
		}
	}
	return points
}

func appendNumberPoints(points []MetricPoint, name string, dps pmetric.NumberDataPointSlice) []MetricPoint {
	for i := 0; i < dps.Len(); i++ {
		dp := dps.At(i)
		points = append(points, MetricPoint{
			Name:  name,
			Attrs: stringAttrs(dp.Attributes()),
			Time:  timestamp(dp.Timestamp()),
			Value: numberValue(dp),
		})
	}
	return points
}

func numberValue(dp pmetric.NumberDataPoint) float64 {
	switch dp.ValueType() {
	case pmetric.NumberDataPointValueTypeDouble:
		return dp.DoubleValue()
	case pmetric.NumberDataPointValueTypeInt:
		return float64(dp.IntValue())
	default:
		return 0
	}
}

// ExtractEvents flattens resource→scope→logRecord trees into events. Event
// identity comes from the body's string value, falling back to the
// event.name attribute; the timestamp falls back to the observed time.
func ExtractEvents(lds []plog.Logs) []LogEvent {
	var events []LogEvent
	for _, ld := range lds {
		rls := ld.ResourceLogs()
		for i := 0; i < rls.Len(); i++ {
			sls := rls.At(i).ScopeLogs()
			for j := 0; j < sls.Len(); j++ {
				lrs := sls.At(j).LogRecords()
				for k := 0; k < lrs.Len(); k++ {
					events = append(events, logEvent(lrs.At(k)))
				}
			}
		}
	}
	return events
}

func logEvent(lr plog.LogRecord) LogEvent {
	var name string
	if lr.Body().Type() == pcommon.ValueTypeStr {
		name = lr.Body().Str()
	}
	if name == "" {
		if v, ok := lr.Attributes().Get("event.name"); ok {
			name = v.AsString()
		}
	}
	ts := lr.Timestamp()
	if ts == 0 {
		ts = lr.ObservedTimestamp()
	}
	return LogEvent{Name: name, Time: timestamp(ts)}
}

func stringAttrs(m pcommon.Map) map[string]string {
	if m.Len() == 0 {
		return nil
	}
	attrs := make(map[string]string, m.Len())
	m.Range(func(k string, v pcommon.Value) bool {
		attrs[k] = v.AsString()
		return true
	})
	return attrs
}

func timestamp(ts pcommon.Timestamp) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return ts.AsTime()
}
