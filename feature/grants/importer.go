package grants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"airdrop-ledger/core/storage"
	"airdrop-ledger/core/utils"
	"airdrop-ledger/feature/campaign"
	"airdrop-ledger/feature/ledger/models"

	"github.com/gammazero/workerpool"
	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// ErrAlreadyImported is returned when a batch key is already recorded in grant_batches.
var ErrAlreadyImported = errors.New("grant batch already imported")

// Importer creates ledger rows from grant batch files.
type Importer struct {
	client   storage.Client
	bucket   string
	prefix   string
	workers  int
	db       *gorm.DB
	resolver campaign.Resolver
	logger   *zap.Logger
}

// NewImporter creates an importer reading bucket/prefix with up to workers
// batches in flight.
func NewImporter(client storage.Client, bucket, prefix string, workers int, db *gorm.DB, resolver campaign.Resolver, logger *zap.Logger) *Importer {
	if workers <= 0 {
		workers = 1
	}
	return &Importer{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		workers:  workers,
		db:       db,
		resolver: resolver,
		logger:   logger,
	}
}

// Run imports every .json batch under the prefix. A rejected batch does not
// stop the run; it is recorded in the report.
func (i *Importer) Run(ctx context.Context) (*Report, error) {
	exists, err := i.client.BucketExists(ctx, i.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", i.bucket)
	}

	keys, err := i.listBatches(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Imported: []string{}, Skipped: []string{}, Failed: map[string]string{}}
	var mu sync.Mutex

	pool := workerpool.New(i.workers)
	for _, key := range keys {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			n, err := i.ImportObject(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrAlreadyImported):
				i.logger.Debug("Grant batch already imported", zap.String("key", key))
				report.Skipped = append(report.Skipped, key)
			case err != nil:
				i.logger.Error("Grant batch rejected", zap.String("key", key), zap.Error(err))
				report.Failed[key] = err.Error()
			default:
				i.logger.Info("Grant batch imported", zap.String("key", key), zap.Int("rows", n))
				report.Imported = append(report.Imported, key)
				report.Rows += n
			}
		})
	}
	pool.StopWait()

	sort.Strings(report.Imported)
	sort.Strings(report.Skipped)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (i *Importer) listBatches(ctx context.Context) ([]string, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    i.prefix,
		Recursive: true,
	}

	var keys []string
	for obj := range i.client.ListObjects(ctx, i.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list grant batches: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}

// ImportObject loads one batch file and inserts its rows in a single
// transaction, tagged with the object key as grant_batch. The key is recorded
// in grant_batches in the same transaction, so a file is imported once even
// when runs overlap.
func (i *Importer) ImportObject(ctx context.Context, key string) (int, error) {
	batch, err := i.load(ctx, key)
	if err != nil {
		return 0, err
	}

	airdropID, err := i.resolver.Resolve(ctx, batch.ContractAddress)
	if err != nil {
		return 0, fmt.Errorf("campaign %s: %w", batch.ContractAddress, err)
	}

	rows, err := buildRows(airdropID, key, batch.Grants)
	if err != nil {
		return 0, err
	}

	err = i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := models.ImportedBatch{Key: key, AirdropID: airdropID, RowCount: len(rows)}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyImported
			}
			return fmt.Errorf("failed to record grant batch: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert grants: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (i *Importer) load(ctx context.Context, key string) (*Batch, error) {
	reader, err := i.client.GetObject(ctx, i.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get grant batch: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read grant batch: %w", err)
	}

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse grant batch: %w", err)
	}
	return &batch, nil
}

// buildRows validates every grant; any bad grant rejects the whole batch and
// every problem found is reported.
func buildRows(airdropID uint64, key string, grants []Grant) ([]models.LedgerRow, error) {
	var errs error
	rows := make([]models.LedgerRow, 0, len(grants))
	for n, g := range grants {
		if g.UserAddress == "" {
			errs = multierr.Append(errs, fmt.Errorf("grant %d: empty user address", n))
			continue
		}
		amount, err := utils.ParseAmount(g.Amount.String())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("grant %d: %w", n, err))
			continue
		}
		if !amount.IsPositive() {
			errs = multierr.Append(errs, fmt.Errorf("grant %d: amount must be positive", n))
			continue
		}
		rows = append(rows, models.LedgerRow{
			AirdropID:         airdropID,
			UserAddress:       g.UserAddress,
			AirdropAmount:     amount,
			AirdropUsedAmount: decimal.Zero,
			GrantBatch:        key,
		})
	}
	if errs != nil {
		return nil, errs
	}
	return rows, nil
}
