package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/config"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/feed"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Importer ingests supplier YAML feeds into the catalog. One import runs in
// one transaction: a malformed feed commits nothing.
type Importer struct {
	repo    *Repository
	tx      txRunner
	client  *http.Client
	metrics *metrics.ImporterMetrics
	maxSize int64
}

// ImporterParams bundles the dependencies required to build an importer.
type ImporterParams struct {
	Repo    *Repository
	Tx      txRunner
	Client  *http.Client
	Metrics *metrics.ImporterMetrics
	Config  config.ImporterConfig
}

// NewImporter constructs a feed importer with the provided stack.
func NewImporter(params ImporterParams) (*Importer, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	client := params.Client
	if client == nil {
		timeout := params.Config.FetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	maxSize := params.Config.MaxFeedBytes
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return &Importer{
		repo:    params.Repo,
		tx:      params.Tx,
		client:  client,
		metrics: params.Metrics,
		maxSize: maxSize,
	}, nil
}

// ImportFromURL downloads the feed document and imports it.
func (im *Importer) ImportFromURL(ctx context.Context, ownerID uuid.UUID, rawURL string) (*ImportResult, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed url must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build feed request")
	}
	resp, err := im.client.Do(req)
	if err != nil {
		im.metrics.IncFailure("")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		im.metrics.IncFailure("")
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("feed endpoint returned %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, im.maxSize+1))
	if err != nil {
		im.metrics.IncFailure("")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read feed body")
	}
	if int64(len(data)) > im.maxSize {
		im.metrics.IncFailure("")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed document exceeds the size limit")
	}

	feedURL := parsed.String()
	return im.ImportFeed(ctx, ownerID, data, &feedURL)
}

// ImportFeed validates the document and writes it to the catalog atomically.
func (im *Importer) ImportFeed(ctx context.Context, ownerID uuid.UUID, data []byte, sourceURL *string) (*ImportResult, error) {
	started := time.Now()

	doc, err := feed.DecodeBytes(data)
	if err != nil {
		im.metrics.IncFailure("")
		return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, "feed is not valid yaml")
	}
	if err := doc.Validate(); err != nil {
		im.metrics.IncFailure(doc.Shop)
		problems := make([]string, 0)
		for _, issue := range multierr.Errors(err) {
			problems = append(problems, issue.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed failed validation").
			WithDetails(map[string]any{"problems": problems})
	}

	result := &ImportResult{Shop: doc.Shop, Categories: len(doc.Categories)}

	err = im.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := im.repo.WithTx(tx)

		shop, err := im.resolveShop(ctx, repo, ownerID, doc.Shop, sourceURL)
		if err != nil {
			return err
		}
		result.ShopID = shop.ID

		categories := make(map[int64]*models.Category, len(doc.Categories))
		for _, entry := range doc.Categories {
			cat, err := im.upsertCategory(ctx, repo, shop.ID, entry)
			if err != nil {
				return err
			}
			categories[entry.ID] = cat
		}

		for _, good := range doc.Goods {
			created, params, err := im.upsertGood(ctx, repo, shop.ID, categories[good.Category], good)
			if err != nil {
				return err
			}
			if created {
				result.GoodsCreated++
			} else {
				result.GoodsUpdated++
			}
			result.ParamsWritten += params
		}
		return nil
	})
	if err != nil {
		im.metrics.IncFailure(doc.Shop)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import feed")
	}

	im.metrics.ObserveDuration(doc.Shop, time.Since(started))
	im.metrics.IncSuccess(doc.Shop)
	im.metrics.AddUpserts(doc.Shop, result.GoodsCreated+result.GoodsUpdated)
	return result, nil
}

func (im *Importer) resolveShop(ctx context.Context, repo *Repository, ownerID uuid.UUID, name string, sourceURL *string) (*models.Shop, error) {
	shop, err := repo.FindShopByNameForUpdate(ctx, name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return repo.CreateShop(ctx, &models.Shop{
			Name:    name,
			URL:     sourceURL,
			State:   enums.ShopStateOn,
			OwnerID: &ownerID,
		})
	}

	if shop.OwnerID == nil {
		if err := repo.ClaimShop(ctx, shop.ID, ownerID, sourceURL); err != nil {
			return nil, err
		}
		shop.OwnerID = &ownerID
		return shop, nil
	}
	if *shop.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop belongs to another partner")
	}
	return shop, nil
}

func (im *Importer) upsertCategory(ctx context.Context, repo *Repository, shopID uuid.UUID, entry feed.Category) (*models.Category, error) {
	cat, err := repo.FindCategoryByExternalID(ctx, entry.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cat, err = repo.CreateCategory(ctx, &models.Category{
			ExternalID: entry.ID,
			Name:       entry.Name,
			Slug:       Slugify(entry.Name),
		})
		if err != nil {
			return nil, err
		}
	}
	// Category name is first-write-wins across feeds.

	if err := repo.LinkShopCategory(ctx, shopID, cat.ID); err != nil {
		return nil, err
	}
	return cat, nil
}

func (im *Importer) upsertGood(ctx context.Context, repo *Repository, shopID uuid.UUID, category *models.Category, good feed.Good) (bool, int, error) {
	if category == nil {
		return false, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("good %d references unknown category", good.ID))
	}

	product, err := repo.FindProductByExternalID(ctx, good.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, err
		}
		product, err = repo.CreateProduct(ctx, &models.Product{
			ExternalID: good.ID,
			Name:       good.Name,
			CategoryID: category.ID,
			Model:      good.Model,
			Slug:       Slugify(good.Name),
		})
		if err != nil {
			return false, 0, err
		}
	}
	// Product identity (name, category, model) is first-write-wins.

	var rrc *decimal.Decimal
	if good.PriceRRC != nil {
		value := good.PriceRRC.Decimal
		rrc = &value
	}

	created := false
	listing, err := repo.FindListing(ctx, product.ID, shopID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, err
		}
		info := &models.ProductInfo{
			ProductID:        product.ID,
			ShopID:           shopID,
			ExternalID:       good.ID,
			Quantity:         good.Quantity,
			Price:            good.Price.Decimal,
			RecommendedPrice: rrc,
		}
		listing, err = repo.CreateListing(ctx, info)
		if err != nil {
			return false, 0, err
		}
		created = true
	} else {
		listing.ExternalID = good.ID
		listing.Quantity = good.Quantity
		listing.Price = good.Price.Decimal
		listing.RecommendedPrice = rrc
		if err := repo.UpdateListing(ctx, listing); err != nil {
			return false, 0, err
		}
	}

	written := 0
	for name, value := range good.Parameters {
		param, err := repo.EnsureParameter(ctx, name)
		if err != nil {
			return created, written, err
		}
		if err := repo.UpsertParameterValue(ctx, listing.ID, param.ID, value.String()); err != nil {
			return created, written, err
		}
		written++
	}
	return created, written, nil
}
