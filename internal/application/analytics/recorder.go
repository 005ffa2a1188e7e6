package analytics

import "time"

// Recorder recibe las métricas del pipeline de reportes.
// Lo implementa infrastructure/metrics; la capa de aplicación no depende de Prometheus.
type Recorder interface {
	PageFetched()
	FetchTruncated()
	ReportGenerated(kind string, elapsed time.Duration, degraded bool)
}

// NopRecorder descarta todas las métricas.
type NopRecorder struct{}

func (NopRecorder) PageFetched()                                {}
func (NopRecorder) FetchTruncated()                             {}
func (NopRecorder) ReportGenerated(string, time.Duration, bool) {}
