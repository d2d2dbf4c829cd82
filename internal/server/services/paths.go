package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
)

const projectsPrefix = "projects"

// checkSegment rejects values that could escape their place in a storage key.
func checkSegment(what, v string) error {
	switch {
	case v == "", v == ".", v == "..":
		return fmt.Errorf("%w: %s %q", common.ErrorInvalidPath, what, v)
	case strings.ContainsAny(v, `/\`):
		return fmt.Errorf("%w: %s %q contains a separator", common.ErrorInvalidPath, what, v)
	case strings.IndexFunc(v, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: %s contains control characters", common.ErrorInvalidPath, what)
	}
	return nil
}

func checkKind(kind string) error {
	if kind != models.KindRawData && kind != models.KindProcessedData {
		return fmt.Errorf("%w: unknown kind %q", common.ErrorInvalidPath, kind)
	}
	return nil
}

// RunPrefix is the key prefix of one run's files of one kind, with a
// trailing slash.
func RunPrefix(project, run, kind string) (string, error) {
	if err := checkSegment("project", project); err != nil {
		return "", err
	}
	if err := checkSegment("run", run); err != nil {
		return "", err
	}
	if err := checkKind(kind); err != nil {
		return "", err
	}
	return strings.Join([]string{projectsPrefix, project, "runs", run, kind}, "/") + "/", nil
}

// DocumentPrefix is the key prefix of a project's documents.
func DocumentPrefix(project string) (string, error) {
	if err := checkSegment("project", project); err != nil {
		return "", err
	}
	return strings.Join([]string{projectsPrefix, project, "documents"}, "/") + "/", nil
}

// ImagePrefix is the key prefix of a project's image storage.
func ImagePrefix(project string) (string, error) {
	if err := checkSegment("project", project); err != nil {
		return "", err
	}
	return strings.Join([]string{projectsPrefix, project, "images"}, "/") + "/", nil
}

// runPath is the path clients see for the files of one run and kind. It
// matches the record paths the client builds after an upload.
func runPath(project, run, kind string) string {
	return strings.Join([]string{project, run, kind}, "/")
}

func documentPath(project string) string {
	return project + "/documents"
}

func objectKey(prefix, name string) (string, error) {
	if err := checkSegment("name", name); err != nil {
		return "", err
	}
	return prefix + name, nil
}
