package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"brandintel-backend-go/internal/models"
	"brandintel-backend-go/internal/query"
)

// RelatedLimit bounds the related collections attached to a brand detail.
const RelatedLimit = 10

type BrandInput struct {
	Name      string
	LogoURL   *string
	Industry  *string
	Market    *string
	Tier      *string
	Aesthetic []string
}

func CreateBrand(ctx context.Context, db sqlx.QueryerContext, in BrandInput) (models.Brand, error) {
	name, err := NormalizeRequired(in.Name, "name")
	if err != nil {
		return models.Brand{}, err
	}
	var brand models.Brand
	err = sqlx.GetContext(ctx, db, &brand, `
INSERT INTO brands (id, name, logo_url, industry, market, tier, aesthetic)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+models.BrandColumns,
		uuid.NewString(), name, trimOptional(in.LogoURL), trimOptional(in.Industry), trimOptional(in.Market),
		trimOptional(in.Tier), pq.StringArray(uniqueNonBlank(in.Aesthetic)))
	if err != nil {
		return models.Brand{}, classify(err, "create brand")
	}
	return brand, nil
}

// BrandFilter holds the optional brand listing parameters. Empty fields add no
// predicate.
type BrandFilter struct {
	IDs       []string
	Search    string
	Industry  string
	Market    string
	Tier      string
	Aesthetic string
}

func (f BrandFilter) Filter() query.Filter {
	var q query.Filter
	q.AddIf(len(f.IDs) > 0, query.In("id", f.IDs...))
	q.AddIf(f.Search != "", query.Contains("name", f.Search))
	q.AddIf(f.Industry != "", query.Eq("industry", f.Industry))
	q.AddIf(f.Market != "", query.Eq("market", f.Market))
	q.AddIf(f.Tier != "", query.Eq("tier", f.Tier))
	q.AddIf(f.Aesthetic != "", query.HasTag("aesthetic", f.Aesthetic))
	return q
}

func ListBrands(ctx context.Context, db sqlx.QueryerContext, f BrandFilter, page query.Page) (query.Result[models.Brand], error) {
	result, err := query.List[models.Brand](ctx, db, query.Listing{
		Table:   "brands",
		Columns: models.BrandColumns,
		Filter:  f.Filter(),
		Order:   query.Order{Column: "created_at", TieBreak: "id"},
		Page:    page,
	})
	if err != nil {
		return query.Result[models.Brand]{}, classify(err, "list brands")
	}
	return result, nil
}

// Includes names the related collections attached to a brand detail.
type Includes struct {
	Content bool
	Signals bool
}

// ParseIncludes reads a comma separated include list. Unknown names are
// ignored.
func ParseIncludes(raw string) Includes {
	var inc Includes
	for _, name := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "content":
			inc.Content = true
		case "signals":
			inc.Signals = true
		}
	}
	return inc
}

// BrandDetail is a brand with its requested related collections. A nil
// collection was not requested and is left out of the JSON body.
type BrandDetail struct {
	models.Brand
	Content *[]models.Content `json:"content,omitempty"`
	Signals *[]models.Signal  `json:"signals,omitempty"`
}

func GetBrand(ctx context.Context, db sqlx.QueryerContext, id string, inc Includes) (BrandDetail, error) {
	brandID, ok := parseID(id)
	if !ok {
		return BrandDetail{}, ErrNotFound("Brand not found")
	}
	var detail BrandDetail
	err := sqlx.GetContext(ctx, db, &detail.Brand, `SELECT `+models.BrandColumns+` FROM brands WHERE id = $1`, brandID)
	if err != nil {
		return BrandDetail{}, lookupError(err, "Brand not found", "load brand")
	}

	owner := query.NewFilter(query.Eq("brand_id", brandID))
	if inc.Content {
		content, err := query.Fetch[models.Content](ctx, db, query.Listing{
			Table:   "content",
			Columns: models.ContentColumns,
			Filter:  owner,
			Order:   query.Order{Column: "created_at", TieBreak: "id"},
			Page:    query.Page{Limit: RelatedLimit},
		})
		if err != nil {
			return BrandDetail{}, classify(err, "load brand content")
		}
		detail.Content = &content
	}
	if inc.Signals {
		signals, err := query.Fetch[models.Signal](ctx, db, query.Listing{
			Table:   "signals",
			Columns: models.SignalColumns,
			Filter:  owner,
			Order:   query.Order{Column: "detected_at", TieBreak: "id"},
			Page:    query.Page{Limit: RelatedLimit},
		})
		if err != nil {
			return BrandDetail{}, classify(err, "load brand signals")
		}
		detail.Signals = &signals
	}
	return detail, nil
}
