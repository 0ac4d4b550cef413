package recordio

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rushteam/cinerank/core"
)

// CSVSource 是基于 CSV 文件的来源榜单，实现 fusion.Source。
type CSVSource struct {
	Path string
	Kind RankKind
}

func (s *CSVSource) Name() string { return string(s.Kind) + ":" + filepath.Base(s.Path) }

func (s *CSVSource) Load(ctx context.Context) ([]core.MovieRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadSources(f, s.Kind)
	if err != nil {
		return nil, errorf(s.Path, err)
	}
	return records, nil
}

// LoadFused 读取融合排名文件。
func LoadFused(path string) ([]*core.FusedMovie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ranking, err := ReadFused(f)
	if err != nil {
		return nil, errorf(path, err)
	}
	return ranking, nil
}

// LoadRatings 读取评分文件。
func LoadRatings(path string) ([]core.RatedMovie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rated, err := ReadRatings(f)
	if err != nil {
		return nil, errorf(path, err)
	}
	return rated, nil
}

// SaveFused 把融合排名写到文件（先写临时文件再改名）。
func SaveFused(path string, ranking []*core.FusedMovie) error {
	return writeFile(path, func(f *os.File) error { return WriteFused(f, ranking) })
}

// SaveSources 把来源榜单写到文件。
func SaveSources(path string, records []core.MovieRecord, kind RankKind) error {
	return writeFile(path, func(f *os.File) error { return WriteSources(f, records, kind) })
}

func writeFile(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return errorf(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errorf(path, err)
	}
	return os.Rename(tmp.Name(), path)
}
