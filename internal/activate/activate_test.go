package activate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jvirtualenv/internal/config"
	"jvirtualenv/internal/java"
)

var jdk8 = java.Installation{
	Tag:     "1:8:0:64",
	Version: java.Version{Major: 1, Minor: 8, Raw: "1.8.0_202"},
	Bit:     "64",
	Home:    "/opt/java/jdk1.8.0_202",
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	got := Substitute(`A="__JAVA_HOME__" B="__JAVA_TAG__" C=__JAVA_TAG__`, map[string]string{
		JavaHomeSlot: "/opt/jdk",
		JavaTagSlot:  "11:0:2:64",
	})
	want := `A="/opt/jdk" B="11:0:2:64" C=__JAVA_TAG__`
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}
}

func TestClassPath(t *testing.T) {
	t.Parallel()

	if got := ClassPath("1:8:0:64"); !strings.Contains(got, `tools.jar`) {
		t.Errorf("ClassPath(1.x) = %q", got)
	}
	if got := ClassPath("11:0:2:64"); got != "." {
		t.Errorf("ClassPath(11) = %q", got)
	}
	if got := ClassPath("9.0.4"); got != "." {
		t.Errorf("ClassPath(9) = %q, want .", got)
	}
}

func TestRenderPOSIX(t *testing.T) {
	t.Parallel()

	scripts, err := Render(POSIX, "/work/demo", jdk8.Home, jdk8.Tag)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(scripts) != 1 || scripts[0].Name != "activate" {
		t.Fatalf("scripts = %+v", scripts)
	}
	body := scripts[0].Content
	for _, want := range []string{
		`VIRTUAL_ENV="/work/demo"`,
		`JAVA_HOME="/opt/java/jdk1.8.0_202"`,
		`JAVA_TAG="1:8:0:64"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("activate script missing %q", want)
		}
	}
	if strings.Contains(body, "__JAVA_HOME__") || strings.Contains(body, "__VIRTUAL_ENV__") {
		t.Error("activate script still has placeholders")
	}
}

func TestRenderWindows(t *testing.T) {
	t.Parallel()

	scripts, err := Render(Windows, `C:\work\demo`, `C:\Program Files\Java\jdk1.8.0_202`, "1:8:0:64")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(scripts) != 2 || scripts[0].Name != "activate.bat" || scripts[1].Name != "deactivate.bat" {
		t.Fatalf("scripts = %+v", scripts)
	}
	body := scripts[0].Content
	for _, want := range []string{
		`("C:\work\demo")`,
		`("C:\Program Files\Java\jdk1.8.0_202")`,
		`("1:8:0:64")`,
		`(".;%JAVA_HOME%\lib\dt.jar;%JAVA_HOME%\lib\tools.jar")`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("activate.bat missing %q", want)
		}
	}
	if strings.Contains(body, "__CLASSPATH__") {
		t.Error("activate.bat still has placeholders")
	}

	// JAVA_TAG marks the active environment for list-tag
	if !strings.Contains(body, `for %%I in ("1:8:0:64") do set "JAVA_TAG=%%~I"`) {
		t.Error("activate.bat does not export JAVA_TAG")
	}
	if !strings.Contains(scripts[1].Content, "set JAVA_TAG=\r\n") {
		t.Error("deactivate.bat does not clear JAVA_TAG")
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	project := filepath.Join(t.TempDir(), "demo")
	paths, err := Write(POSIX, project, jdk8, false)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := filepath.Join(project, "bin", "activate")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("paths = %q, want [%q]", paths, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `VIRTUAL_ENV="`+project+`"`) {
		t.Error("script does not reference the absolute project path")
	}
}

func TestWriteExistingProject(t *testing.T) {
	t.Parallel()

	project := t.TempDir()

	if _, err := Write(POSIX, project, jdk8, false); !errors.Is(err, ErrProjectExists) {
		t.Fatalf("Write() error = %v, want ErrProjectExists", err)
	}
	if _, err := os.Stat(filepath.Join(project, "bin")); !errors.Is(err, os.ErrNotExist) {
		t.Error("bin created without force")
	}

	if _, err := Write(POSIX, project, jdk8, true); err != nil {
		t.Fatalf("Write(force) error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, "bin", "activate")); err != nil {
		t.Errorf("activate not written with force: %v", err)
	}
}

func TestWriteDirectoryConflict(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "bin"), []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Write(Windows, project, jdk8, true)
	var conflict *config.DirectoryConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Write() error = %v, want DirectoryConflictError", err)
	}
	if conflict.Path != filepath.Join(project, "bin") {
		t.Errorf("conflict.Path = %q", conflict.Path)
	}
}
