package dto

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type AnalyzerInfo struct {
	ID          string
	Title       string
	Description string
	TimeoutMS   int
}

type AnalyzeInput struct {
	PluginName   string
	AnalyzerID   string
	UserID       string
	ExperimentID string
}

type InsightOutput struct {
	Title  string
	Detail string
	Value  float64
}

type AnalyzeOutput struct {
	PluginName   string
	AnalyzerID   string
	ExperimentID string
	LogsSent     int
	Summary      string
	Insights     []InsightOutput
}
