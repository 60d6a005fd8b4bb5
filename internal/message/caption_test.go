package message

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flickr_syncer/internal/domain"
)

func strptr(s string) *string {
	return &s
}

func fullPhoto(description string) (*domain.Photo, *domain.ExifInfo, []domain.Tag) {
	photo := &domain.Photo{
		ID:     "53000000001",
		Server: "65535",
		Secret: "abc123",
		Owner:  "12345678@N00",
		Info: domain.PhotoInfo{
			Title:       "Sunset over the bay",
			Description: strptr(description),
			PageURL:     strptr("https://www.flickr.com/photos/12345678@N00/53000000001/"),
			Permission:  domain.Permission{IsPublic: true},
			Date:        domain.PhotoDates{Taken: strptr("2024-05-01 19:22:13")},
		},
	}
	exif := &domain.ExifInfo{
		PhotoID: photo.ID,
		Info: domain.ExifFields{
			Make:                    strptr("SONY"),
			Model:                   strptr("ILCE-7M4"),
			LensModel:               strptr("FE 24-70mm F2.8 GM"),
			Exposure:                strptr("1/250"),
			Aperture:                strptr("2.8"),
			FocalLength:             strptr("35.0 mm"),
			FocalLengthIn35mmFormat: strptr("35 mm"),
			ISO:                     strptr("100"),
			ExposureProgram:         strptr("Manual"),
			Artist:                  strptr("Jane Doe"),
			Copyright:               strptr("Jane Doe 2024"),
			ExposureCompensation:    strptr("-0.3"),
			Clean: domain.ExifClean{
				Exposure:    strptr("1/250 sec"),
				Aperture:    strptr("f/2.8"),
				FocalLength: strptr("35 mm"),
			},
		},
	}
	tags := []domain.Tag{
		{PhotoID: photo.ID, TagID: "t1", Info: domain.TagInfo{TagName: "sunset"}},
		{PhotoID: photo.ID, TagID: "t2", Info: domain.TagInfo{TagName: "bay"}},
	}
	return photo, exif, tags
}

func TestCaption_SectionsPresent(t *testing.T) {
	photo, exif, tags := fullPhoto("A quiet evening. Shot from the pier!")

	caption := Caption(photo, exif, tags)
	rendered := RenderPlainText(caption)

	assert.True(t, strings.HasPrefix(caption, "*Sunset over the bay*  // Jane Doe\n\n"))
	assert.Contains(t, rendered, "A quiet evening. Shot from the pier!")
	assert.Contains(t, rendered, "Flickr 页面")
	assert.Contains(t, rendered, "#sunset")
	assert.Contains(t, rendered, "#bay")
	assert.Contains(t, rendered, "Copyright ©Jane Doe 2024")
	assert.Contains(t, rendered, "拍摄时间 | 2024-05-01 19:22:13")
	assert.Contains(t, rendered, "相机型号 | SONY ILCE-7M4")
	assert.Contains(t, rendered, "镜头型号 | FE 24-70mm F2.8 GM")
	assert.Contains(t, rendered, "焦距 / 35mm 等效焦距 | 35 mm / 35 mm")
	assert.Contains(t, rendered, "曝光时间 | 1/250 sec")
	assert.Contains(t, rendered, "光圈 | f/2.8")
	assert.Contains(t, rendered, "ISO | 100")
	assert.Contains(t, rendered, "曝光程序 (?) | Manual")
	assert.Contains(t, rendered, "曝光补偿 | -0.3")
}

func TestCaption_MissingDescriptionGetsPlaceholder(t *testing.T) {
	photo, exif, tags := fullPhoto("")
	photo.Info.Description = nil

	rendered := RenderPlainText(Caption(photo, exif, tags))

	assert.Contains(t, rendered, "...")
}

func TestCaption_BareMinimumPhoto(t *testing.T) {
	photo := &domain.Photo{
		ID:     "1",
		Server: "1",
		Secret: "s",
		Info:   domain.PhotoInfo{Title: "Untitled"},
	}
	exif := &domain.ExifInfo{PhotoID: "1"}

	caption := Caption(photo, exif, nil)

	assert.True(t, strings.HasPrefix(caption, "*Untitled*\n\n"))
	assert.LessOrEqual(t, RenderedLength(caption), MaxCaptionLength)
}

func TestCaption_Deterministic(t *testing.T) {
	photo, exif, tags := fullPhoto("Same input, same output.")

	first := Caption(photo, exif, tags)
	second := Caption(photo, exif, tags)

	assert.Equal(t, first, second)
	assert.Equal(t, Hash(first), Hash(second))
}

// randomText builds description strings heavy on MarkdownV2 reserved
// characters and multi-byte runes.
func randomText(rng *rand.Rand, n int) string {
	pool := []rune("abc def.ghi!(jkl)[mno]*pqr*_stu_~vwx~`yz`#+-=|{}>湖光山色。测试")
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(pool[rng.Intn(len(pool))])
	}
	return b.String()
}

func TestCaption_RenderedLengthNeverExceedsCap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		photo, exif, tags := fullPhoto(randomText(rng, rng.Intn(3000)))

		// randomly blank out optional sections
		if rng.Intn(2) == 0 {
			exif.Info.Artist = nil
		}
		if rng.Intn(2) == 0 {
			photo.Info.PageURL = nil
		}
		if rng.Intn(2) == 0 {
			tags = nil
		}
		if rng.Intn(4) == 0 {
			exif = &domain.ExifInfo{PhotoID: photo.ID}
		}
		if rng.Intn(4) == 0 {
			photo.Info.Title = randomText(rng, 1200)
		}

		caption := Caption(photo, exif, tags)
		require.LessOrEqual(t, RenderedLength(caption), MaxCaptionLength, "iteration %d", i)
	}
}

func TestCaption_LongDescriptionKeepsSuffixSections(t *testing.T) {
	photo, exif, tags := fullPhoto(strings.Repeat("An unreasonably long description. ", 100))

	caption := Caption(photo, exif, tags)
	rendered := RenderPlainText(caption)

	require.LessOrEqual(t, len([]rune(rendered)), MaxCaptionLength)
	assert.Contains(t, rendered, "...")
	// the exif suffix survives description truncation untouched
	assert.Contains(t, rendered, "光圈 | f/2.8")
	assert.Contains(t, rendered, "拍摄时间 | 2024-05-01 19:22:13")
}

func TestHash(t *testing.T) {
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", Hash("hello"))
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", Hash(""))
	assert.NotEqual(t, Hash("a"), Hash("b"))
}
