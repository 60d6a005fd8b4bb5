package domain

// Photo is the normalized record for one Flickr photo. Info is stored as a
// JSON document; optional fields are pointers with omitempty so absent
// upstream values stay absent in storage instead of becoming zero values.
type Photo struct {
	ID     string
	Server string
	Secret string
	Owner  string
	Info   PhotoInfo
}

type PhotoInfo struct {
	Title          string      `json:"title"`
	Description    *string     `json:"description,omitempty"`
	PageURL        *string     `json:"page_url,omitempty"`
	OriginalFormat *string     `json:"original_format,omitempty"`
	Permission     Permission  `json:"permission"`
	Date           PhotoDates  `json:"date"`
	Count          PhotoCounts `json:"count"`
	Location       Location    `json:"location"`
}

type Permission struct {
	IsPublic bool `json:"is_public"`
}

type PhotoDates struct {
	Taken    *string `json:"taken,omitempty"`
	Uploaded *string `json:"uploaded,omitempty"`
	Updated  *string `json:"updated,omitempty"`
}

type PhotoCounts struct {
	Views    *int `json:"views,omitempty"`
	Comments *int `json:"comments,omitempty"`
}

type Location struct {
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Locality      *string  `json:"locality,omitempty"`
	Neighbourhood *string  `json:"neighbourhood,omitempty"`
	Region        *string  `json:"region,omitempty"`
	Country       *string  `json:"country,omitempty"`
}

// Tag is one photo tag, keyed by (photo_id, tag_id). Tags removed upstream
// are never deleted here; the sync only upserts.
type Tag struct {
	PhotoID string
	TagID   string
	Info    TagInfo
}

type TagInfo struct {
	TagName    string `json:"tag_name"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Raw        string `json:"raw"`
}

// ExifInfo holds the exif document for one photo, keyed by photo_id.
type ExifInfo struct {
	PhotoID string
	Info    ExifFields
}

type ExifFields struct {
	Make                    *string   `json:"make,omitempty"`
	Model                   *string   `json:"model,omitempty"`
	LensInfo                *string   `json:"lens_info,omitempty"`
	LensModel               *string   `json:"lens_model,omitempty"`
	Exposure                *string   `json:"exposure,omitempty"`
	Aperture                *string   `json:"aperture,omitempty"`
	FocalLength             *string   `json:"focal_length,omitempty"`
	FocalLengthIn35mmFormat *string   `json:"focal_length_in_35mm_format,omitempty"`
	ISO                     *string   `json:"iso,omitempty"`
	ExposureProgram         *string   `json:"exposure_program,omitempty"`
	ExposureMode            *string   `json:"exposure_mode,omitempty"`
	Flash                   *string   `json:"flash,omitempty"`
	WhiteBalance            *string   `json:"white_balance,omitempty"`
	Artist                  *string   `json:"artist,omitempty"`
	Copyright               *string   `json:"copyright,omitempty"`
	OriginalDate            *string   `json:"original_date,omitempty"`
	OriginalTimezone        *string   `json:"original_timezone,omitempty"`
	CreateDate              *string   `json:"create_date,omitempty"`
	CreateTimezone          *string   `json:"create_timezone,omitempty"`
	ModifyDate              *string   `json:"modify_date,omitempty"`
	Timezone                *string   `json:"timezone,omitempty"`
	MaxAperture             *string   `json:"max_aperture,omitempty"`
	BrightnessValue         *string   `json:"brightness_value,omitempty"`
	ExposureCompensation    *string   `json:"exposure_compensation,omitempty"`
	MeteringMode            *string   `json:"metering_mode,omitempty"`
	LightSource             *string   `json:"light_source,omitempty"`
	Clean                   ExifClean `json:"clean"`
}

// ExifClean carries the human-normalized variants Flickr provides for a few
// fields; they are preferred over the raw values when rendering captions.
type ExifClean struct {
	Exposure             *string `json:"exposure,omitempty"`
	Aperture             *string `json:"aperture,omitempty"`
	FocalLength          *string `json:"focal_length,omitempty"`
	ExposureCompensation *string `json:"exposure_compensation,omitempty"`
}

// Owner is the photo owner, keyed by the Flickr NSID.
type Owner struct {
	ID       string  `db:"id"`
	Username string  `db:"username"`
	Realname *string `db:"realname"`
	Location *string `db:"location"`
}

// PublishedMessage records what is currently shown in the channel for a
// photo. Absence means never published; a matching hash and chat means there
// is nothing to do on a re-run.
type PublishedMessage struct {
	PhotoID     string `db:"photo_id"`
	ChatID      string `db:"chat_id"`
	MessageID   int64  `db:"message_id"`
	MessageHash string `db:"message_hash"`
	PhotoURL    string `db:"photo_url"`
}

// PhotoStub is one entry of a flickr.photos.recentlyUpdated page, before the
// per-photo detail calls.
type PhotoStub struct {
	ID       string
	Secret   string
	Server   string
	Owner    string
	IsPublic bool
}

// PhotoPage is one page of recently updated photos. Pages is the
// server-reported total; the caller drives the 1-based page counter.
type PhotoPage struct {
	Photos []PhotoStub
	Page   int
	Pages  int
}

// PhotoDetail bundles everything fetched and mapped for a single photo.
type PhotoDetail struct {
	Photo Photo
	Tags  []Tag
	Exif  ExifInfo
	Owner Owner
}
