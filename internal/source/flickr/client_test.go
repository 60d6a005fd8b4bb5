package flickr

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flickr_syncer/internal/domain"
)

const recentlyUpdatedXML = `<?xml version="1.0" encoding="utf-8" ?>
<rsp stat="ok">
  <photos page="1" pages="2" perpage="100" total="150">
    <photo id="53000000001" secret="abc123" server="65535" owner="12345678@N00" ispublic="1" />
    <photo id="53000000002" secret="def456" server="65535" owner="12345678@N00" ispublic="0" />
  </photos>
</rsp>`

const authFailXML = `<?xml version="1.0" encoding="utf-8" ?>
<rsp stat="fail">
  <err code="98" msg="Invalid auth token" />
</rsp>`

const apiFailXML = `<?xml version="1.0" encoding="utf-8" ?>
<rsp stat="fail">
  <err code="112" msg="Method not found" />
</rsp>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testClient(serverURL string) *Client {
	c := New(Config{
		BaseURL:        serverURL,
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		OAuthToken:     "tok",
		OAuthSecret:    "ts",
		OAuthVerifier:  "ver",
		ReauthURL:      "https://example.com/flickr/oauth",
		Timeout:        5 * time.Second,
	}, testLogger())
	return c
}

func TestClient_RecentlyUpdated(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(recentlyUpdatedXML))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1714000000, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Photos, 2)
	assert.Equal(t, "53000000001", page.Photos[0].ID)
	assert.True(t, page.Photos[0].IsPublic)
	assert.False(t, page.Photos[1].IsPublic)

	// every call is signed and carries the pagination parameters
	assert.Equal(t, []string{"flickr.photos.recentlyUpdated"}, gotQuery["method"])
	assert.Equal(t, []string{"1714000000"}, gotQuery["min_date"])
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.NotEmpty(t, gotQuery["oauth_signature"])
	assert.NotEmpty(t, gotQuery["oauth_nonce"])
}

func TestClient_Http401IsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	assert.Contains(t, err.Error(), "https://example.com/flickr/oauth")
}

func TestClient_AuthErrorEnvelopeIsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(authFailXML))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
}

func TestClient_ErrorEnvelopeIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(apiFailXML))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamAPI, domain.KindOf(err))
	// the failing method and parameters are kept for diagnosis
	assert.Contains(t, err.Error(), "Method not found")
	assert.Contains(t, err.Error(), "flickr.photos.recentlyUpdated")
}

func TestClient_Non200IsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamAPI, domain.KindOf(err))
}

func TestClient_MalformedEnvelopeIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamAPI, domain.KindOf(err))
}

func TestClient_TransportErrorIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(srv.URL).RecentlyUpdated(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamAPI, domain.KindOf(err))
}

func TestClient_PhotoDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("method") {
		case "flickr.photos.getInfo":
			w.Write([]byte(getInfoXML))
		case "flickr.photos.getExif":
			w.Write([]byte(getExifXML))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	detail, err := testClient(srv.URL).PhotoDetail(context.Background(), "53000000001", "abc123")

	require.NoError(t, err)
	assert.Equal(t, "53000000001", detail.Photo.ID)
	assert.Len(t, detail.Tags, 2)
	require.NotNil(t, detail.Exif.Info.Make)
	assert.Equal(t, "SONY", *detail.Exif.Info.Make)
	assert.Equal(t, "janedoe", detail.Owner.Username)
}

func TestPhotoURL(t *testing.T) {
	assert.Equal(t,
		"https://live.staticflickr.com/65535/53000000001_abc123_c.jpg",
		testClient("http://unused").PhotoURL("65535", "53000000001", "abc123"),
	)
}
