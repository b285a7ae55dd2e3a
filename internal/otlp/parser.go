package otlp

import (
	"bytes"
	"encoding/json"
	"os"

	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
)

// ReadMetricsFile decodes an OTLP-JSON metrics export file. The file may hold
// a single export document or one document per line. A missing file is not an
// error: telemetry simply has not been written yet.
func ReadMetricsFile(path string) ([]pmetric.Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseMetrics(data), nil
}

// ReadLogsFile decodes an OTLP-JSON logs export file with the same framing
// and missing-file semantics as ReadMetricsFile.
func ReadLogsFile(path string) ([]plog.Logs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseLogs(data), nil
}

// ParseMetrics decodes one or more OTLP-JSON metrics documents. When the
// buffer is not one well-formed document it is split by newline and each line
// decoded independently; lines that do not parse are dropped so one corrupt
// line cannot abort the rest.
func ParseMetrics(data []byte) []pmetric.Metrics {
	um := &pmetric.JSONUnmarshaler{}
	trimmed := bytes.TrimSpace(data)
	if json.Valid(trimmed) {
		md, err := um.UnmarshalMetrics(trimmed)
		if err != nil {
			return nil
		}
		return []pmetric.Metrics{md}
	}

	var out []pmetric.Metrics
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		md, err := um.UnmarshalMetrics(line)
		if err != nil {
			continue
		}
		out = append(out, md)
	}
	return out
}

// ParseLogs is the logs counterpart of ParseMetrics.
func ParseLogs(data []byte) []plog.Logs {
	um := &plog.JSONUnmarshaler{}
	trimmed := bytes.TrimSpace(data)
	if json.Valid(trimmed) {
		ld, err := um.UnmarshalLogs(trimmed)
		if err != nil {
			return nil
		}
		return []plog.Logs{ld}
	}

	var out []plog.Logs
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		ld, err := um.UnmarshalLogs(line)
		if err != nil {
			continue
		}
		out = append(out, ld)
	}
	return out
}
