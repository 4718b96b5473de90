package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"geocapture/internal/dto"
	"geocapture/internal/logger"
	"geocapture/internal/metrics"
	"geocapture/internal/model"
	"geocapture/internal/repository"
)

const (
	FilenamePrefix = "capture_"
	// filenameTimeLayout has one-second resolution; two uploads of the same
	// name within a second share a filename and the later one wins.
	filenameTimeLayout = "20060102_150405"
	logTimeLayout      = "2006-01-02 15:04:05.000000"
	logImageMarker     = " | Image: "
)

// imageExtensions are matched case-sensitively against the end of the name.
var imageExtensions = []string{".jpg", ".png", ".jpeg"}

// Notifier receives an event for every stored capture.
type Notifier interface {
	Broadcast(event dto.CaptureEvent)
}

// Service stores captures and reads them back for the gallery.
type Service struct {
	images    repository.ImageStore
	locations repository.LocationLog
	notifier  Notifier
	logger    *logger.Logger
	now       func() time.Time
}

// NewService wires the stores together. notifier may be nil.
func NewService(images repository.ImageStore, locations repository.LocationLog, notifier Notifier, logger *logger.Logger) *Service {
	return &Service{
		images:    images,
		locations: locations,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Record writes the image and then appends its location line. If the
// append fails the image stays on disk without a log entry.
func (s *Service) Record(ctx context.Context, originalName string, payload io.Reader, latitude, longitude string) (model.Capture, error) {
	if err := ctx.Err(); err != nil {
		return model.Capture{}, err
	}

	taken := s.now()
	original := filepath.Base(originalName)
	filename := Filename(taken, original)

	size, err := s.images.Save(filename, payload)
	if err != nil {
		metrics.RecordUploadFailure(metrics.StageImage)
		return model.Capture{}, fmt.Errorf("failed to store image: %w", err)
	}

	line := LogLine(taken, latitude, longitude, filename)
	s.logger.Info("%s", strings.TrimSuffix(line, "\n"))

	if err := s.locations.Append(line); err != nil {
		metrics.RecordUploadFailure(metrics.StageLog)
		return model.Capture{}, fmt.Errorf("failed to log location: %w", err)
	}

	metrics.RecordUpload(size)

	capture := model.Capture{
		Filename:     filename,
		OriginalName: original,
		Latitude:     latitude,
		Longitude:    longitude,
		Timestamp:    taken,
		Size:         size,
	}

	if s.notifier != nil {
		s.notifier.Broadcast(dto.CaptureEvent{
			File:      filename,
			Lat:       latitude,
			Lon:       longitude,
			Timestamp: taken,
			URL:       ImageURL(filename),
		})
	}

	return capture, nil
}

// Gallery lists stored images newest-first by name together with the raw log.
func (s *Service) Gallery(ctx context.Context) (dto.GalleryData, error) {
	if err := ctx.Err(); err != nil {
		return dto.GalleryData{}, err
	}

	entries, err := s.images.List()
	if err != nil {
		return dto.GalleryData{}, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsImageName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	// Lexicographic order matches chronological order only for capture_ names.
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(b, a)
	})

	content, err := s.locations.ReadAll()
	if err != nil {
		return dto.GalleryData{}, err
	}

	images := make([]dto.GalleryImage, 0, len(names))
	for _, name := range names {
		images = append(images, dto.GalleryImage{Name: name, URL: ImageURL(name)})
	}

	return dto.GalleryData{Images: images, Log: content}, nil
}

// Audit cross-checks capture files against the image references in the log.
func (s *Service) Audit(ctx context.Context) (dto.AuditReport, error) {
	if err := ctx.Err(); err != nil {
		return dto.AuditReport{}, err
	}

	entries, err := s.images.List()
	if err != nil {
		return dto.AuditReport{}, err
	}

	report := dto.AuditReport{Orphans: []string{}, Dangling: []string{}}
	files := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, _, err := ParseFilename(e.Name()); err != nil {
			continue
		}

		info, err := e.Info()
		if err != nil {
			s.logger.Warning("Failed to get info for %s: %v", e.Name(), err)
			continue
		}
		files[e.Name()] = true
		report.Files++
		report.TotalBytes += info.Size()
	}

	content, err := s.locations.ReadAll()
	if err != nil {
		return dto.AuditReport{}, err
	}

	referenced := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		name, ok := imageFromLogLine(line)
		if !ok {
			continue
		}
		report.LogEntries++
		if !files[name] && !referenced[name] {
			report.Dangling = append(report.Dangling, name)
		}
		referenced[name] = true
	}

	for name := range files {
		if !referenced[name] {
			report.Orphans = append(report.Orphans, name)
		}
	}
	slices.Sort(report.Orphans)
	slices.Sort(report.Dangling)

	return report, nil
}

// Filename builds capture_<YYYYMMDD_HHMMSS>_<original>.
func Filename(t time.Time, original string) string {
	return FilenamePrefix + t.Format(filenameTimeLayout) + "_" + original
}

// LogLine formats one location log entry, including the trailing newline.
func LogLine(t time.Time, latitude, longitude, filename string) string {
	return fmt.Sprintf("[%s] Location: Lat %s, Lon %s%s%s\n",
		t.Format(logTimeLayout), latitude, longitude, logImageMarker, filename)
}

// ParseFilename splits a capture filename into its timestamp and original name.
// The timestamp is interpreted in local time, like the clock that produced it.
func ParseFilename(name string) (time.Time, string, error) {
	rest, ok := strings.CutPrefix(name, FilenamePrefix)
	if !ok || len(rest) < len(filenameTimeLayout)+1 || rest[len(filenameTimeLayout)] != '_' {
		return time.Time{}, "", errors.New("invalid capture name format")
	}

	t, err := time.ParseInLocation(filenameTimeLayout, rest[:len(filenameTimeLayout)], time.Local)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid capture timestamp: %w", err)
	}
	return t, rest[len(filenameTimeLayout)+1:], nil
}

// ImageURL is where the static file server exposes a stored file.
func ImageURL(name string) string {
	return "/uploads/" + url.PathEscape(name)
}

// IsImageName reports whether name ends in one of the gallery extensions.
func IsImageName(name string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func imageFromLogLine(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") {
		return "", false
	}
	i := strings.LastIndex(line, logImageMarker)
	if i < 0 {
		return "", false
	}
	name := strings.TrimRight(line[i+len(logImageMarker):], "\r")
	return name, name != ""
}
