package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Discover recursively finds the files to scan in the given directory.
// Hidden files and directories are skipped; include filters file names.
func Discover(rootPath, include string) ([]Source, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Check if directory exists
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	var files []Source

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if d.IsDir() {
			if path != absRoot && IsHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || IsHidden(d.Name()) || !MatchInclude(d.Name(), include) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, Source{
			Path:         path,
			RelativePath: filepath.Join(rootPath, relPath),
			Type:         SourceFile,
			ModTime:      info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// DiscoverAll resolves command-line arguments into sources: "-" is standard
// input, patterns are expanded, directories are walked. Each file appears
// once, in the order first named. No arguments means standard input.
func DiscoverAll(args []string, include string) ([]Source, error) {
	if len(args) == 0 {
		args = []string{StdinName}
	}

	var sources []Source
	seen := make(map[string]bool)
	add := func(s Source) {
		if !seen[s.Path] {
			seen[s.Path] = true
			sources = append(sources, s)
		}
	}

	for _, arg := range args {
		switch ClassifyArg(arg) {
		case ArgStdin:
			add(Source{Path: StdinName, RelativePath: StdinName, Type: SourceStdin})

		case ArgGlob:
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
			}
			sort.Strings(matches)
			for _, m := range matches {
				found, err := discoverPath(m, include)
				if err != nil {
					return nil, err
				}
				for _, s := range found {
					add(s)
				}
			}

		case ArgPath:
			found, err := discoverPath(arg, include)
			if err != nil {
				return nil, err
			}
			for _, s := range found {
				add(s)
			}
		}
	}
	return sources, nil
}

// discoverPath returns a named file as is and walks a directory
func discoverPath(path, include string) ([]Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("input not found: %s", path)
		}
		return nil, fmt.Errorf("failed to access input: %w", err)
	}
	if info.IsDir() {
		return Discover(path, include)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return []Source{{
		Path:         abs,
		RelativePath: path,
		Type:         SourceFile,
		ModTime:      info.ModTime(),
	}}, nil
}
