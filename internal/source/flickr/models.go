package flickr

import "encoding/xml"

// envelope is the top-level Flickr REST response: <rsp stat="ok|fail">.
type envelope struct {
	XMLName xml.Name   `xml:"rsp"`
	Stat    string     `xml:"stat,attr"`
	Err     *apiError  `xml:"err"`
	Photos  *rawPhotos `xml:"photos"`
	Photo   *RawPhoto  `xml:"photo"`
}

type apiError struct {
	Code int    `xml:"code,attr"`
	Msg  string `xml:"msg,attr"`
}

// rawPhotos is the flickr.photos.recentlyUpdated collection. Pages is the
// server-reported total used for loop termination.
type rawPhotos struct {
	Page  int            `xml:"page,attr"`
	Pages int            `xml:"pages,attr"`
	Photo []rawPhotoStub `xml:"photo"`
}

type rawPhotoStub struct {
	ID       string `xml:"id,attr"`
	Secret   string `xml:"secret,attr"`
	Server   string `xml:"server,attr"`
	Owner    string `xml:"owner,attr"`
	IsPublic string `xml:"ispublic,attr"`
}

// RawPhoto is the semi-structured photo record shared by
// flickr.photos.getInfo and flickr.photos.getExif responses; either call
// fills a subset of the fields.
type RawPhoto struct {
	ID             string `xml:"id,attr"`
	Secret         string `xml:"secret,attr"`
	Server         string `xml:"server,attr"`
	DateUploaded   string `xml:"dateuploaded,attr"`
	Views          string `xml:"views,attr"`
	OriginalFormat string `xml:"originalformat,attr"`

	Owner       *RawOwner      `xml:"owner"`
	Title       string         `xml:"title"`
	Description string         `xml:"description"`
	Visibility  *RawVisibility `xml:"visibility"`
	Dates       *RawDates      `xml:"dates"`
	Comments    string         `xml:"comments"`
	Tags        RawTags        `xml:"tags"`
	URLs        RawURLs        `xml:"urls"`
	Location    *RawLocation   `xml:"location"`
	Exif        []RawExif      `xml:"exif"`
}

type RawOwner struct {
	NSID     string `xml:"nsid,attr"`
	Username string `xml:"username,attr"`
	Realname string `xml:"realname,attr"`
	Location string `xml:"location,attr"`
}

type RawVisibility struct {
	IsPublic string `xml:"ispublic,attr"`
}

type RawDates struct {
	Taken      string `xml:"taken,attr"`
	LastUpdate string `xml:"lastupdate,attr"`
}

type RawTags struct {
	Tag []RawTag `xml:"tag"`
}

type RawTag struct {
	ID         string `xml:"id,attr"`
	Author     string `xml:"author,attr"`
	AuthorName string `xml:"authorname,attr"`
	Raw        string `xml:"raw,attr"`
	Text       string `xml:",chardata"`
}

type RawURLs struct {
	URL []RawURL `xml:"url"`
}

type RawURL struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type RawLocation struct {
	Latitude      string `xml:"latitude,attr"`
	Longitude     string `xml:"longitude,attr"`
	Locality      string `xml:"locality"`
	Neighbourhood string `xml:"neighbourhood"`
	Region        string `xml:"region"`
	Country       string `xml:"country"`
}

// RawExif is one exif item; tagspace separates the camera-body (IFD0) and
// exposure (ExifIFD) namespaces.
type RawExif struct {
	TagSpace string `xml:"tagspace,attr"`
	Tag      string `xml:"tag,attr"`
	Label    string `xml:"label,attr"`
	Raw      string `xml:"raw"`
	Clean    string `xml:"clean"`
}
