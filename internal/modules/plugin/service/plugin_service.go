package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"selflab/internal/modules/plugin/domain"
	pluginout "selflab/internal/modules/plugin/port/out"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/logger"
)

type PluginService struct {
	store   pluginout.ManifestStore
	host    pluginout.Host
	data    pluginout.DatasetSource
	timeout time.Duration
	log     *logger.Logger
}

func NewPluginService(store pluginout.ManifestStore, host pluginout.Host, data pluginout.DatasetSource, timeout time.Duration, log *logger.Logger) *PluginService {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PluginService{store: store, host: host, data: data, timeout: timeout, log: log}
}

func (s *PluginService) List(ctx context.Context) ([]domain.Manifest, error) {
	return s.loadValidated(ctx)
}

// DoctorReport is the health of one installed plugin.
type DoctorReport struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Err             error
}

func (s *PluginService) Doctor(ctx context.Context) ([]DoctorReport, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]DoctorReport, 0, len(manifests))
	for _, m := range manifests {
		report := DoctorReport{Name: m.Name}
		if err := m.Validate(); err != nil {
			report.Err = err
			reports = append(reports, report)
			continue
		}
		report.BinaryReachable = fileExists(m.Binary)
		if !report.BinaryReachable {
			report.Err = fmt.Errorf("binary does not exist: %s", m.Binary)
			reports = append(reports, report)
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			report.Err = err
			reports = append(reports, report)
			continue
		}
		report.ChecksumValid = true
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				report.Err = err
			} else {
				report.LifecycleOK = true
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *PluginService) ListAnalyzers(ctx context.Context, pluginName string) ([]domain.AnalyzerDescriptor, error) {
	manifest, err := s.getRunnableManifest(ctx, pluginName)
	if err != nil {
		return nil, err
	}
	analyzers, err := s.host.ListAnalyzers(ctx, manifest)
	if err != nil {
		return nil, err
	}
	for _, a := range analyzers {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	return analyzers, nil
}

// Analyze sends the experiment and its logs to one analyzer of the plugin.
func (s *PluginService) Analyze(ctx context.Context, pluginName, analyzerID, userID, experimentID string) (domain.Dataset, domain.AnalyzeResult, error) {
	if strings.TrimSpace(analyzerID) == "" {
		return domain.Dataset{}, domain.AnalyzeResult{}, fmt.Errorf("%w: analyzer id is required", apperrors.ErrInvalidInput)
	}
	dataset, err := s.data.Dataset(ctx, userID, experimentID)
	if err != nil {
		return domain.Dataset{}, domain.AnalyzeResult{}, err
	}
	manifest, err := s.getRunnableManifest(ctx, pluginName)
	if err != nil {
		return domain.Dataset{}, domain.AnalyzeResult{}, err
	}
	analyzers, err := s.host.ListAnalyzers(ctx, manifest)
	if err != nil {
		return domain.Dataset{}, domain.AnalyzeResult{}, err
	}
	analyzer, err := requireAnalyzer(analyzers, analyzerID)
	if err != nil {
		return domain.Dataset{}, domain.AnalyzeResult{}, err
	}

	started := time.Now()
	result, err := s.host.Analyze(ctx, manifest, domain.AnalyzeRequest{AnalyzerID: analyzer.ID, Dataset: dataset}, analyzer.Timeout(s.timeout))
	if err != nil {
		s.log.Warn("analyzer failed", "plugin", pluginName, "analyzer", analyzerID, "error", err)
		return domain.Dataset{}, domain.AnalyzeResult{}, err
	}
	s.log.Info("analyzer finished", "plugin", pluginName, "analyzer", analyzerID, "logs", len(dataset.Logs), "elapsed", time.Since(started))
	return dataset, result, nil
}

func (s *PluginService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *PluginService) findManifest(ctx context.Context, pluginName string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, item := range manifests {
		if item.Name == pluginName {
			return item, nil
		}
	}
	return domain.Manifest{}, fmt.Errorf("%w: %q", domain.ErrPluginNotFound, pluginName)
}

func (s *PluginService) getRunnableManifest(ctx context.Context, pluginName string) (domain.Manifest, error) {
	manifest, err := s.findManifest(ctx, pluginName)
	if err != nil {
		return domain.Manifest{}, err
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, pluginName)
	}
	if !manifest.HasCapability(domain.CapabilityAnalyze) {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, domain.CapabilityAnalyze)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host != nil {
		if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginTimeout, pluginName)
			}
			return domain.Manifest{}, err
		}
	}
	return manifest, nil
}

func requireAnalyzer(analyzers []domain.AnalyzerDescriptor, analyzerID string) (domain.AnalyzerDescriptor, error) {
	for _, a := range analyzers {
		if a.ID == analyzerID {
			return a, nil
		}
	}
	return domain.AnalyzerDescriptor{}, fmt.Errorf("%w: %s", domain.ErrAnalyzerNotFound, analyzerID)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
