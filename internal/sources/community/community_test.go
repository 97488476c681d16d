package community

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medallion/internal/library"
	"medallion/internal/sources"
)

func newTestClient(t *testing.T, creds sources.Credentials, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, "medallion-test", 5*time.Second, creds)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

const gamesXML = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<gamesList>
	<steamID64>76561197960287930</steamID64>
	<games>
		<game>
			<appID>440</appID>
			<name><![CDATA[Team Fortress 2]]></name>
			<statsLink><![CDATA[https://steamcommunity.com/profiles/76561197960287930/stats/440]]></statsLink>
		</game>
		<game>
			<appID>1840</appID>
			<name><![CDATA[Source Filmmaker]]></name>
		</game>
	</games>
</gamesList>`

func TestXMLGamesFetchOwned(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(gamesXML))
	})

	candidates, err := NewXMLGames(client).FetchOwned(context.Background(), 76561197960287930)
	if err != nil {
		t.Fatalf("FetchOwned failed: %v", err)
	}
	if gotPath != "/profiles/76561197960287930/games" || gotQuery != "tab=all&xml=1" {
		t.Errorf("request = %s?%s", gotPath, gotQuery)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	if !candidates[0].HasStatsLink {
		t.Error("statsLink element should set the flag")
	}
	if candidates[1].HasStatsLink {
		t.Error("missing statsLink element should leave the flag unset")
	}
	if candidates[0].HasProgress() || candidates[1].HasProgress() {
		t.Error("game list carries no achievement counts")
	}
}

func TestXMLGamesPrivateProfile(t *testing.T) {
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><response><error><![CDATA[This profile is private.]]></error></response>`))
	})

	_, err := NewXMLGames(client).FetchOwned(context.Background(), 1)
	if !errors.Is(err, sources.ErrPrivateProfile) {
		t.Errorf("want private profile, got %v", err)
	}
}

func TestXMLGamesSendsSessionCookies(t *testing.T) {
	creds := sources.Credentials{SessionID: "sess", LoginSecure: "secure"}
	var gotCookies map[string]string
	client := newTestClient(t, creds, func(w http.ResponseWriter, r *http.Request) {
		gotCookies = map[string]string{}
		for _, c := range r.Cookies() {
			gotCookies[c.Name] = c.Value
		}
		w.Write([]byte(gamesXML))
	})

	if _, err := NewXMLGames(client).FetchOwned(context.Background(), 1); err != nil {
		t.Fatalf("FetchOwned failed: %v", err)
	}
	if gotCookies["sessionid"] != "sess" || gotCookies["steamLoginSecure"] != "secure" {
		t.Errorf("cookies = %v", gotCookies)
	}
}

func TestHTMLGamesFetchOwned(t *testing.T) {
	page := `<!DOCTYPE html><html><body><script>
		var rgGames = [{"appid":400,"name":"Portal","availStatLinks":{"achievements":true}},{"appid":1840,"name":"Source Filmmaker","availStatLinks":{"achievements":false}}];
	</script></body></html>`
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	})

	candidates, err := NewHTMLGames(client).FetchOwned(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchOwned failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	if candidates[0].AppID != 400 || !candidates[0].HasStatsLink {
		t.Errorf("candidate 0 = %+v", candidates[0])
	}
	if candidates[1].HasStatsLink {
		t.Error("availStatLinks.achievements=false should leave flag unset")
	}
}

func TestHTMLGamesSignInRedirect(t *testing.T) {
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><form id="loginForm" action="/login/home/"></form></html>`))
	})

	_, err := NewHTMLGames(client).FetchOwned(context.Background(), 1)
	if !errors.Is(err, sources.ErrSignInWall) {
		t.Errorf("want sign-in wall, got %v", err)
	}
}

func TestHTMLGamesFormatChanged(t *testing.T) {
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>redesigned; no script array anymore</body></html>`))
	})

	_, err := NewHTMLGames(client).FetchOwned(context.Background(), 1)
	if !errors.Is(err, sources.ErrMalformed) {
		t.Errorf("layout drift must be loud, got %v", err)
	}
}

const achievementsXML = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<playerstats>
	<privacyState>public</privacyState>
	<achievements>
		<achievement closed="1"><name>One</name></achievement>
		<achievement closed="0"><name>Two</name></achievement>
		<achievement closed="1"><name>Three</name></achievement>
		<achievement closed="0"><name>Four</name></achievement>
	</achievements>
</playerstats>`

func TestXMLAchievementsFetchProgress(t *testing.T) {
	var gotPath string
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(achievementsXML))
	})

	unlocked, total, err := NewXMLAchievements(client).FetchProgress(context.Background(), 7656119, 440)
	if err != nil {
		t.Fatalf("FetchProgress failed: %v", err)
	}
	if gotPath != "/profiles/7656119/stats/440/achievements" {
		t.Errorf("path = %s", gotPath)
	}
	if unlocked != 2 || total != 4 {
		t.Errorf("progress = %d/%d, want 2/4", unlocked, total)
	}
}

func TestXMLAchievementsNoStatsIsAbsence(t *testing.T) {
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><response><error><![CDATA[This user has no stats for this game]]></error></response>`))
	})

	unlocked, total, err := NewXMLAchievements(client).FetchProgress(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if unlocked != 0 || total != 0 {
		t.Errorf("progress = %d/%d, want 0/0", unlocked, total)
	}
}

func TestXMLAchievementsTransportFailure(t *testing.T) {
	client := newTestClient(t, sources.Credentials{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	unlocked, total, err := NewXMLAchievements(client).FetchProgress(context.Background(), 1, 10)
	if !errors.Is(err, sources.ErrTransient) {
		t.Errorf("want transient, got %v", err)
	}
	if unlocked != library.UnknownProgress || total != library.UnknownProgress {
		t.Errorf("failed fetch must report unknown, got %d/%d", unlocked, total)
	}
}
