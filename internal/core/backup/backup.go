// Package backup 匯入 Sharp Cooking 應用程式匯出的 zip 備份檔
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

// ManifestName 備份檔中食譜清單的檔名
const ManifestName = "SharpBackup_Recipe.json"

var utf8BOM = []byte("\xef\xbb\xbf")

// Record 備份檔中的一筆食譜，欄位名稱與應用程式匯出的格式一致
type Record struct {
	Title         string `json:"Title"`
	Ingredients   string `json:"Ingredients"`
	Instructions  string `json:"Instructions"`
	Notes         string `json:"Notes"`
	MainImagePath string `json:"MainImagePath"`
}

// Entry 解析後的一筆食譜
type Entry struct {
	Title        string
	Ingredients  []parser.IngredientToken
	Instructions []parser.InstructionToken
	Image        string
	Notes        string
}

// ImageEncoder 將備份檔中的圖片轉為 data URI
type ImageEncoder interface {
	FromBytes(name string, data []byte) (string, error)
}

// Importer 備份檔匯入器
type Importer struct {
	images  ImageEncoder
	catalog *parser.UnitCatalog
	workers int
}

// NewImporter 建立匯入器，workers 為同時處理圖片的上限
func NewImporter(images ImageEncoder, catalog *parser.UnitCatalog, workers int) *Importer {
	if workers <= 0 {
		workers = 1
	}
	return &Importer{
		images:  images,
		catalog: catalog,
		workers: workers,
	}
}

// Import 讀取 zip 備份檔並依原始順序回傳食譜
// 任何讀取、解析或圖片處理失敗皆回傳 common.ErrMalformedArchive
func (im *Importer) Import(ctx context.Context, data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, common.ErrMalformedArchive.Wrap(fmt.Errorf("failed to open archive: %w", err))
	}

	manifest, err := readFile(zr, ManifestName)
	if err != nil {
		return nil, common.ErrMalformedArchive.Wrap(err)
	}

	var records []Record
	if err := common.ParseJSONBytes(bytes.TrimPrefix(manifest, utf8BOM), &records); err != nil {
		return nil, common.ErrMalformedArchive.Wrap(fmt.Errorf("failed to decode %s: %w", ManifestName, err))
	}

	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			Title:        r.Title,
			Ingredients:  parser.ParseIngredients(r.Ingredients, "en", im.catalog),
			Instructions: parser.ParseInstructions(r.Instructions, "en"),
			Notes:        r.Notes,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)

	for i, r := range records {
		if r.MainImagePath == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := readFile(zr, r.MainImagePath)
			if err != nil {
				return err
			}
			uri, err := im.images.FromBytes(path.Base(r.MainImagePath), raw)
			if err != nil {
				return fmt.Errorf("recipe %q: %w", r.Title, err)
			}
			entries[i].Image = uri
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, common.ErrMalformedArchive.Wrap(err)
	}

	common.LogDebug("Imported backup",
		zap.Int("recipes", len(entries)),
		zap.Int("files", len(zr.File)),
	)

	return entries, nil
}

// readFile 讀取 zip 中名稱完全相符的檔案
func readFile(zr *zip.Reader, name string) ([]byte, error) {
	var zf *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			zf = f
			break
		}
	}
	if zf == nil {
		return nil, fmt.Errorf("%s not found in archive", name)
	}

	f, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return b, nil
}
