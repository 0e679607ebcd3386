package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandintel-backend-go/internal/query"
)

func TestCreateBrand(t *testing.T) {
	db, mock := newMockDB(t)
	industry := " Fashion "

	mock.ExpectQuery("INSERT INTO brands").
		WithArgs(sqlmock.AnyArg(), "Nike Inc.", nil, "Fashion", nil, nil, pq.StringArray{"Bold", "Modern"}).
		WillReturnRows(brandRows().AddRow(brandID, "Nike Inc.", nil, "Fashion", nil, nil, "{Bold,Modern}", fixedTime))

	brand, err := CreateBrand(context.Background(), db, BrandInput{
		Name:      "  Nike Inc.",
		Industry:  &industry,
		Aesthetic: []string{"Bold", "Modern", "Bold", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, brandID, brand.ID)
	assert.Equal(t, pq.StringArray{"Bold", "Modern"}, brand.Aesthetic)
	assert.Equal(t, fixedTime, brand.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBrand_BlankName(t *testing.T) {
	db, mock := newMockDB(t)
	_, err := CreateBrand(context.Background(), db, BrandInput{Name: "   "})
	serr := requireCode(t, err, CodeValidation)
	assert.Equal(t, []FieldError{{Field: "name", Message: "must not be blank"}}, serr.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandFilter(t *testing.T) {
	tests := []struct {
		name         string
		filter       BrandFilter
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			name:        "no parameters",
			filter:      BrandFilter{},
			expectedSQL: "",
		},
		{
			name:         "industry and tier",
			filter:       BrandFilter{Industry: "Tech", Tier: "Luxury"},
			expectedSQL:  "WHERE industry = $1 AND tier = $2",
			expectedArgs: []interface{}{"Tech", "Luxury"},
		},
		{
			name:         "all parameters",
			filter:       BrandFilter{IDs: []string{"a", "b"}, Search: "nike", Industry: "Fashion", Market: "US", Tier: "Premium", Aesthetic: "Modern"},
			expectedSQL:  "WHERE id IN ($1, $2) AND name ILIKE $3 AND industry = $4 AND market = $5 AND tier = $6 AND aesthetic @> $7",
			expectedArgs: []interface{}{"a", "b", "%nike%", "Fashion", "US", "Premium", pq.StringArray{"Modern"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.filter.Filter().Where(1)
			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestListBrands_TotalUsesActiveFilter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM brands WHERE industry = $1 AND aesthetic @> $2 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4")).
		WithArgs("Tech", pq.StringArray{"Modern"}, 20, 20).
		WillReturnRows(brandRows().AddRow(brandID, "Acme", nil, "Tech", nil, nil, "{Modern}", fixedTime))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM brands WHERE industry = $1 AND aesthetic @> $2")).
		WithArgs("Tech", pq.StringArray{"Modern"}).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	result, err := ListBrands(context.Background(), db, BrandFilter{Industry: "Tech", Aesthetic: "Modern"}, query.Page{Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 45, result.Total)
	assert.Len(t, result.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBrands_StoreFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM brands").WillReturnError(errors.New("connection refused"))

	_, err := ListBrands(context.Background(), db, BrandFilter{}, query.Page{Limit: 20})
	serr := requireCode(t, err, CodeDependencyFailure)
	assert.Equal(t, 500, serr.Status)
}

func TestParseIncludes(t *testing.T) {
	assert.Equal(t, Includes{Content: true, Signals: true}, ParseIncludes("content, signals"))
	assert.Equal(t, Includes{Signals: true}, ParseIncludes("SIGNALS"))
	assert.Equal(t, Includes{}, ParseIncludes("bogus"))
	assert.Equal(t, Includes{}, ParseIncludes(""))
}

func TestGetBrand_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM brands WHERE id = ").WithArgs(brandID).WillReturnRows(brandRows())

	_, err := GetBrand(context.Background(), db, brandID, Includes{})
	serr := requireCode(t, err, CodeNotFound)
	assert.Equal(t, "Brand not found", serr.Message)
	assert.Equal(t, 404, serr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBrand_MalformedIDIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	_, err := GetBrand(context.Background(), db, "not-a-uuid", Includes{Content: true})
	requireCode(t, err, CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBrand_WithoutIncludes(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM brands WHERE id = ").WithArgs(brandID).
		WillReturnRows(brandRows().AddRow(brandID, "Acme", nil, nil, nil, nil, "{}", fixedTime))

	detail, err := GetBrand(context.Background(), db, brandID, ParseIncludes("bogus"))
	require.NoError(t, err)
	assert.Nil(t, detail.Content)
	assert.Nil(t, detail.Signals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBrand_AttachesRequestedRelations(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM brands WHERE id = ").WithArgs(brandID).
		WillReturnRows(brandRows().AddRow(brandID, "Acme", nil, nil, nil, nil, "{}", fixedTime))
	mock.ExpectQuery(regexp.QuoteMeta("FROM content WHERE brand_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs(brandID, RelatedLimit, 0).
		WillReturnRows(contentRows().
			AddRow(contentA, brandID, "instagram", "post", "https://example.com/p/1", nil, "{}", "{}", "{}", fixedTime, fixedTime))
	mock.ExpectQuery(regexp.QuoteMeta("FROM signals WHERE brand_id = $1 ORDER BY detected_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs(brandID, RelatedLimit, 0).
		WillReturnRows(signalRows())

	detail, err := GetBrand(context.Background(), db, brandID, ParseIncludes("content,signals"))
	require.NoError(t, err)
	require.NotNil(t, detail.Content)
	require.NotNil(t, detail.Signals)
	assert.Len(t, *detail.Content, 1)
	assert.Empty(t, *detail.Signals)
	assert.NoError(t, mock.ExpectationsWereMet())
}
