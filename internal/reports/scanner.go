package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jonesrussell/gotrends/internal/models"
)

// dateDirPattern matches the per-day directories the crawler writes.
var dateDirPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Scanner enumerates generated report files under the output directory.
type Scanner struct {
	resolver *Resolver
}

// NewScanner creates a Scanner over the given output directory resolver.
func NewScanner(resolver *Resolver) *Scanner {
	return &Scanner{resolver: resolver}
}

// OutputDir exposes the resolved output directory.
func (s *Scanner) OutputDir() string {
	return s.resolver.Dir()
}

// Scan lists report files newest first: the daily-summary index.html at the
// output root plus every <date>/html/*.html. A missing output directory
// yields an empty list, not an error.
func (s *Scanner) Scan() ([]models.ReportFile, error) {
	outputDir := s.resolver.Dir()

	items := []models.ReportFile{}

	if info, err := os.Stat(filepath.Join(outputDir, "index.html")); err == nil {
		items = append(items, models.ReportFile{
			ID:      "output/index.html",
			Label:   "Latest summary (index.html)",
			RelPath: "index.html",
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	dates, err := s.Dates()
	if err != nil {
		return nil, err
	}

	for _, date := range dates {
		htmlDir := filepath.Join(outputDir, date, "html")
		entries, err := os.ReadDir(htmlDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			relPath := filepath.ToSlash(filepath.Join(date, "html", entry.Name()))
			items = append(items, models.ReportFile{
				ID:      relPath,
				Label:   fmt.Sprintf("%s / %s", date, entry.Name()),
				RelPath: relPath,
				Date:    date,
				ModTime: info.ModTime(),
				Size:    info.Size(),
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ModTime.After(items[j].ModTime)
	})
	return items, nil
}

// Latest returns the newest report file, or nil when none exist.
func (s *Scanner) Latest() (*models.ReportFile, error) {
	items, err := s.Scan()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Dates lists the per-day directories, newest first.
func (s *Scanner) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.resolver.Dir())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	dates := []string{}
	for _, entry := range entries {
		if entry.IsDir() && dateDirPattern.MatchString(entry.Name()) {
			dates = append(dates, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// ValidDate reports whether the given string names a per-day directory.
func ValidDate(date string) bool {
	return dateDirPattern.MatchString(date)
}

// DailyDatabasePath returns the crawl database path for a date. The date
// must already be validated.
func (s *Scanner) DailyDatabasePath(date string) string {
	return filepath.Join(s.resolver.Dir(), date, "news.db")
}

// ResolveOutputFile confines a client-supplied relative path to the output
// directory and returns its absolute path. The boolean is false for paths
// escaping the output root.
func (s *Scanner) ResolveOutputFile(relPath string) (string, bool) {
	relPath = strings.TrimLeft(strings.TrimSpace(relPath), "/")
	if relPath == "" {
		return "", false
	}

	outputRoot, err := filepath.Abs(s.resolver.Dir())
	if err != nil {
		return "", false
	}
	candidate := filepath.Clean(filepath.Join(outputRoot, filepath.FromSlash(relPath)))
	if candidate == outputRoot || !strings.HasPrefix(candidate, outputRoot+string(filepath.Separator)) {
		return "", false
	}
	return candidate, true
}
