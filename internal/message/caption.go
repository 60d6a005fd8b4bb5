package message

import (
	"fmt"
	"strings"

	"flickr_syncer/internal/domain"
)

// MaxCaptionLength is Telegram's hard cap on the rendered plain-text length
// of a photo caption.
const MaxCaptionLength = 1024

// moreMarker renders as "...".
const moreMarker = `\.\.\.`

// captionData holds the escaped field values for one caption. Tag names stay
// raw: they are escaped in the anchor text but used verbatim in the tag URL.
type captionData struct {
	Title         string
	Artist        string
	Description   string
	PageURL       string
	Tags          []string
	Date          string
	Copyright     string
	Make          string
	Model         string
	LensModel     string
	MaxAperture   string
	FocalLength   string
	FocalLength35 string
	Exposure      string
	Aperture      string
	ISO           string
	ExposureProg  string
	ExposureMode  string
	Flash         string
	WhiteBalance  string
	MeteringMode  string
	LightSource   string
	Brightness    string
	ExposureComp  string
}

func newCaptionData(photo *domain.Photo, exif *domain.ExifInfo, tags []domain.Tag) captionData {
	e := exif.Info
	d := captionData{
		Title:         Escape(photo.Info.Title),
		Artist:        escapeOpt(e.Artist),
		Description:   escapeOpt(photo.Info.Description),
		PageURL:       escapeOpt(photo.Info.PageURL),
		Date:          escapeOpt(photo.Info.Date.Taken),
		Copyright:     escapeOpt(e.Copyright),
		Make:          escapeOpt(e.Make),
		Model:         escapeOpt(e.Model),
		LensModel:     escapeOpt(e.LensModel),
		MaxAperture:   escapeOpt(e.MaxAperture),
		FocalLength:   escapeOpt(coalesce(e.Clean.FocalLength, e.FocalLength)),
		FocalLength35: escapeOpt(e.FocalLengthIn35mmFormat),
		Exposure:      escapeOpt(coalesce(e.Clean.Exposure, e.Exposure)),
		Aperture:      escapeOpt(coalesce(e.Clean.Aperture, e.Aperture)),
		ISO:           escapeOpt(e.ISO),
		ExposureProg:  escapeOpt(e.ExposureProgram),
		ExposureMode:  escapeOpt(e.ExposureMode),
		Flash:         escapeOpt(e.Flash),
		WhiteBalance:  escapeOpt(e.WhiteBalance),
		MeteringMode:  escapeOpt(e.MeteringMode),
		LightSource:   escapeOpt(e.LightSource),
		Brightness:    escapeOpt(e.BrightnessValue),
		ExposureComp:  escapeOpt(coalesce(e.Clean.ExposureCompensation, e.ExposureCompensation)),
	}
	for _, t := range tags {
		d.Tags = append(d.Tags, t.Info.TagName)
	}
	return d
}

// prefix is the fixed section before the description.
func (d captionData) prefix() string {
	var b strings.Builder
	b.WriteString("*" + d.Title + "*")
	if d.Artist != "" {
		b.WriteString("  // " + d.Artist)
	}
	b.WriteString("\n\n")
	return b.String()
}

// suffix is the fixed section after the description: links, tags and the
// exif blocks.
func (d captionData) suffix() string {
	const tiffRef = "https://www.awaresystems.be/imaging/tiff/tifftags/privateifd/exif/"

	var b strings.Builder
	b.WriteString("\n\n")
	if d.PageURL != "" {
		b.WriteString("[Flickr 页面](" + d.PageURL + ")\n\n")
	}
	if len(d.Tags) > 0 {
		for _, t := range d.Tags {
			fmt.Fprintf(&b, `[\#%s](https://www.flickr.com/photos/tags/%s) `, Escape(t), t)
		}
		b.WriteString("\n\n")
	}
	if d.Copyright != "" {
		b.WriteString("`Copyright ©" + d.Copyright + "`\n\n")
	}
	b.WriteString("\n")
	writeRow(&b, "拍摄时间", d.Date)
	if d.Make != "" || d.Model != "" {
		sep := ""
		if d.Make != "" && d.Model != "" {
			sep = " "
		}
		writeRow(&b, "相机型号", d.Make+sep+d.Model)
	}
	writeRow(&b, "镜头型号", d.LensModel)
	writeRow(&b, "最大光圈", d.MaxAperture)
	b.WriteString("\n")
	if d.FocalLength != "" || d.FocalLength35 != "" {
		label, value := "", ""
		if d.FocalLength != "" {
			label, value = "焦距", d.FocalLength
		}
		if d.FocalLength != "" && d.FocalLength35 != "" {
			label += " / "
			value += " / "
		}
		if d.FocalLength35 != "" {
			label += "35mm 等效焦距"
			value += d.FocalLength35
		}
		writeRow(&b, label, value)
	}
	writeRow(&b, "曝光时间", d.Exposure)
	writeRow(&b, "光圈", d.Aperture)
	writeRow(&b, "ISO", d.ISO)
	b.WriteString("\n")
	writeRefRow(&b, "曝光程序", tiffRef+"exposureprogram.html", d.ExposureProg)
	writeRefRow(&b, "曝光模式", tiffRef+"exposuremode.html", d.ExposureMode)
	writeRefRow(&b, "闪光模式", tiffRef+"flash.html", d.Flash)
	writeRefRow(&b, "白平衡模式", tiffRef+"whitebalance.html", d.WhiteBalance)
	writeRefRow(&b, "测光模式", tiffRef+"meteringmode.html", d.MeteringMode)
	writeRefRow(&b, "光源类型", tiffRef+"lightsource.html", d.LightSource)
	b.WriteString("\n")
	writeRefRow(&b, "亮度", tiffRef+"brightnessvalue.html", d.Brightness)
	writeRow(&b, "曝光补偿", d.ExposureComp)
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, `*%s* \| %s`+"\n", label, value)
	}
}

func writeRefRow(b *strings.Builder, label, ref, value string) {
	if value != "" {
		fmt.Fprintf(b, `*%s* [\(?\)](%s) \| %s`+"\n", label, ref, value)
	}
}

// Caption renders the channel message body for a photo. The rendered
// plain-text length of the result never exceeds MaxCaptionLength: the fixed
// prefix and suffix are measured first, the suffix is cut to a sub-budget
// when the two alone approach the cap, and the description gets whatever
// budget remains. All cuts happen at markup level and are verified by
// re-rendering.
func Caption(photo *domain.Photo, exif *domain.ExifInfo, tags []domain.Tag) string {
	d := newCaptionData(photo, exif, tags)

	markerLen := RenderedLength(moreMarker)

	prefix := TruncateToFit(d.prefix(), MaxCaptionLength, moreMarker)
	budget := MaxCaptionLength - RenderedLength(prefix)

	suffix := d.suffix()
	if RenderedLength(suffix) > budget-markerLen {
		suffix = TruncateToFit(suffix, budget-markerLen, moreMarker)
	}
	budget -= RenderedLength(suffix)

	desc := d.Description
	switch {
	case desc == "":
		if budget >= markerLen {
			desc = moreMarker
		}
	case RenderedLength(desc) > budget:
		desc = TruncateToFit(desc, budget, moreMarker)
	}

	return prefix + desc + suffix
}

func escapeOpt(p *string) string {
	if p == nil {
		return ""
	}
	return Escape(*p)
}

func coalesce(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}
