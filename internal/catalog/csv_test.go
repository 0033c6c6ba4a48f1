package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
)

func TestParse_WellFormed(t *testing.T) {
	doc := "id,name,price,description,image_urls\n" +
		"1,Ceramic Mug,299.00,A mug,https://img.example.com/mug1.jpg https://img.example.com/mug2.jpg\n" +
		"2,Scented Candle,149.50,A candle,https://img.example.com/candle.jpg\n"

	products, stats, err := Parse(doc)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 0, stats.Dropped)
	assert.Equal(t, 0, stats.Defaulted)

	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Ceramic Mug", products[0].Name)
	assert.Equal(t, "299.00", products[0].Price.StringFixed(2))
	assert.Equal(t, "A mug", products[0].Description)
	assert.Equal(t, []string{
		"https://img.example.com/mug1.jpg",
		"https://img.example.com/mug2.jpg",
	}, products[0].Images)

	assert.Equal(t, "149.50", products[1].Price.StringFixed(2))
}

func TestParse_QuotedFieldKeepsComma(t *testing.T) {
	doc := "id,name,price\n" +
		`7,"Mug, Blue",199.00` + "\n"

	products, _, err := Parse(doc)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug, Blue", products[0].Name)
	assert.Equal(t, "199.00", products[0].Price.StringFixed(2))
}

func TestParse_ShortRecordPadded(t *testing.T) {
	// The second record has no price, description, or images. Missing
	// trailing fields read as empty rather than failing the record.
	doc := "id,name,price,description,image_urls\n" +
		"1,Gift Box\n"

	products, stats, err := Parse(doc)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Gift Box", products[0].Name)
	assert.True(t, products[0].Price.IsZero())
	assert.Empty(t, products[0].Description)
	assert.Empty(t, products[0].Images)
	assert.Equal(t, 1, stats.Defaulted)
}

func TestParse_InvalidIDDropsRecord(t *testing.T) {
	doc := "id,name,price\n" +
		"abc,Broken,10.00\n" +
		",Nameless,5.00\n" +
		"3,Kept,20.00\n"

	products, stats, err := Parse(doc)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].ID)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.Dropped)
}

func TestParse_InvalidPriceDefaultsToZero(t *testing.T) {
	doc := "id,name,price\n" +
		"1,Freebie,not-a-number\n"

	products, stats, err := Parse(doc)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.IsZero())
	assert.Equal(t, 1, stats.Defaulted)
}

func TestParse_BlankLinesSkipped(t *testing.T) {
	doc := "id,name,price\n" +
		"\n" +
		"1,One,1.00\n" +
		"   \n" +
		"2,Two,2.00\n"

	products, stats, err := Parse(doc)

	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 2, stats.Rows)
}

func TestParse_EmptyDocument(t *testing.T) {
	products, _, err := Parse("   \n  ")

	assert.Nil(t, products)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_HeaderWithoutID(t *testing.T) {
	doc := "name,price\nMug,299.00\n"

	products, _, err := Parse(doc)

	assert.Nil(t, products)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestSplitRecord_QuotedAndUnquoted(t *testing.T) {
	fields := splitRecord(`1, "Mug, Blue" ,299.00,plain`)

	assert.Equal(t, []string{"1", "Mug, Blue", "299.00", "plain"}, fields)
}

func TestCleanField_StripsOneQuotePair(t *testing.T) {
	assert.Equal(t, "Mug", cleanField(` "Mug" `))
	assert.Equal(t, `"Mug`, cleanField(`"Mug`))
	assert.Equal(t, "", cleanField(""))
}
