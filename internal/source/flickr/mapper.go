package flickr

import (
	"strconv"

	"flickr_syncer/internal/domain"
)

// The mapper converts raw Flickr records into normalized entities. Absent or
// non-numeric upstream fields become nil, never zero, so stored documents
// only ever contain keys that were actually present.

func mapStub(raw rawPhotoStub) domain.PhotoStub {
	return domain.PhotoStub{
		ID:     raw.ID,
		Secret: raw.Secret,
		Server: raw.Server,
		Owner:  raw.Owner,
		// default to public unless explicitly marked private
		IsPublic: raw.IsPublic != "0",
	}
}

// MapPhotoDetail maps a getInfo record plus a getExif record into the
// normalized entities for one photo.
func MapPhotoDetail(info, exif *RawPhoto) *domain.PhotoDetail {
	return &domain.PhotoDetail{
		Photo: MapPhoto(info),
		Tags:  MapTags(info),
		Exif:  MapExif(exif),
		Owner: MapOwner(info),
	}
}

func MapPhoto(info *RawPhoto) domain.Photo {
	photo := domain.Photo{
		ID:     info.ID,
		Server: info.Server,
		Secret: info.Secret,
	}
	if info.Owner != nil {
		photo.Owner = info.Owner.NSID
	}

	isPublic := ""
	if info.Visibility != nil {
		isPublic = info.Visibility.IsPublic
	}

	photo.Info = domain.PhotoInfo{
		Title:          info.Title,
		Description:    optString(info.Description),
		PageURL:        pageURL(info),
		OriginalFormat: optString(info.OriginalFormat),
		Permission:     domain.Permission{IsPublic: isPublic != "0"},
		Count: domain.PhotoCounts{
			Views:    optInt(info.Views),
			Comments: optInt(info.Comments),
		},
	}

	photo.Info.Date.Uploaded = optString(info.DateUploaded)
	if info.Dates != nil {
		photo.Info.Date.Taken = optString(info.Dates.Taken)
		photo.Info.Date.Updated = optString(info.Dates.LastUpdate)
	}

	if info.Location != nil {
		photo.Info.Location = domain.Location{
			Latitude:      optFloat(info.Location.Latitude),
			Longitude:     optFloat(info.Location.Longitude),
			Locality:      optString(info.Location.Locality),
			Neighbourhood: optString(info.Location.Neighbourhood),
			Region:        optString(info.Location.Region),
			Country:       optString(info.Location.Country),
		}
	}

	return photo
}

func MapTags(info *RawPhoto) []domain.Tag {
	tags := make([]domain.Tag, 0, len(info.Tags.Tag))
	for _, raw := range info.Tags.Tag {
		tags = append(tags, domain.Tag{
			PhotoID: info.ID,
			TagID:   raw.ID,
			Info: domain.TagInfo{
				TagName:    raw.Text,
				AuthorID:   raw.Author,
				AuthorName: raw.AuthorName,
				Raw:        raw.Raw,
			},
		})
	}
	return tags
}

// MapExif flattens the exif list through a fixed tag dictionary spanning the
// IFD0 and ExifIFD namespaces; unmapped tags are dropped.
func MapExif(raw *RawPhoto) domain.ExifInfo {
	ifd0 := map[string]RawExif{}
	exifIFD := map[string]RawExif{}
	for _, item := range raw.Exif {
		switch item.TagSpace {
		case "IFD0":
			ifd0[item.Tag] = item
		case "ExifIFD":
			exifIFD[item.Tag] = item
		}
	}

	return domain.ExifInfo{
		PhotoID: raw.ID,
		Info: domain.ExifFields{
			Make:                    rawOf(ifd0, "Make"),
			Model:                   rawOf(ifd0, "Model"),
			LensInfo:                rawOf(exifIFD, "LensInfo"),
			LensModel:               rawOf(exifIFD, "LensModel"),
			Exposure:                rawOf(exifIFD, "ExposureTime"),
			Aperture:                rawOf(exifIFD, "FNumber"),
			FocalLength:             rawOf(exifIFD, "FocalLength"),
			FocalLengthIn35mmFormat: rawOf(exifIFD, "FocalLengthIn35mmFormat"),
			ISO:                     rawOf(exifIFD, "ISO"),
			ExposureProgram:         rawOf(exifIFD, "ExposureProgram"),
			ExposureMode:            rawOf(exifIFD, "ExposureMode"),
			Flash:                   rawOf(exifIFD, "Flash"),
			WhiteBalance:            rawOf(exifIFD, "WhiteBalance"),
			Artist:                  rawOf(ifd0, "Artist"),
			Copyright:               rawOf(ifd0, "Copyright"),
			OriginalDate:            rawOf(exifIFD, "DateTimeOriginal"),
			OriginalTimezone:        rawOf(exifIFD, "OffsetTimeOriginal"),
			CreateDate:              rawOf(exifIFD, "CreateDate"),
			CreateTimezone:          rawOf(exifIFD, "OffsetTimeDigitized"),
			ModifyDate:              rawOf(ifd0, "ModifyDate"),
			Timezone:                rawOf(exifIFD, "OffsetTime"),
			MaxAperture:             rawOf(exifIFD, "MaxApertureValue"),
			BrightnessValue:         rawOf(exifIFD, "BrightnessValue"),
			ExposureCompensation:    rawOf(exifIFD, "ExposureCompensation"),
			MeteringMode:            rawOf(exifIFD, "MeteringMode"),
			LightSource:             rawOf(exifIFD, "LightSource"),
			Clean: domain.ExifClean{
				Exposure:             cleanOf(exifIFD, "ExposureTime"),
				Aperture:             cleanOf(exifIFD, "FNumber"),
				FocalLength:          cleanOf(exifIFD, "FocalLength"),
				ExposureCompensation: cleanOf(exifIFD, "ExposureCompensation"),
			},
		},
	}
}

func MapOwner(info *RawPhoto) domain.Owner {
	owner := domain.Owner{}
	if info.Owner != nil {
		owner.ID = info.Owner.NSID
		owner.Username = info.Owner.Username
		owner.Realname = optString(info.Owner.Realname)
		owner.Location = optString(info.Owner.Location)
	}
	return owner
}

func pageURL(info *RawPhoto) *string {
	for _, u := range info.URLs.URL {
		if u.Type == "photopage" {
			return optString(u.Text)
		}
	}
	return nil
}

func rawOf(items map[string]RawExif, tag string) *string {
	if item, ok := items[tag]; ok {
		return optString(item.Raw)
	}
	return nil
}

func cleanOf(items map[string]RawExif, tag string) *string {
	if item, ok := items[tag]; ok {
		return optString(item.Clean)
	}
	return nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func optFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
