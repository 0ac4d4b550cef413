// Package ratings 是评分历史协作方：抓取 Letterboxd 用户的评分列表页。
package ratings

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rushteam/cinerank/core"
)

// Config 是抓取配置。
type Config struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	MaxPages  int           `koanf:"max_pages" validate:"gte=1"`
	Workers   int           `koanf:"workers" validate:"gte=1"` // 每批并发抓取的页数
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	UserAgent string        `koanf:"user_agent"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://letterboxd.com",
		MaxPages:  10,
		Workers:   10,
		Timeout:   15 * time.Second,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	}
}

var (
	selErrorMessage = cascadia.MustCompile("div.error-message")
	selFilmList     = cascadia.MustCompile("ul.poster-list, ul.film-list, ul.rated-film-list")
	selEntry        = cascadia.MustCompile("li")
	selPoster       = cascadia.MustCompile("div.film-poster, div.poster, div.react-component")
	selRating       = cascadia.MustCompile("span.rating, span.rated-rating")
)

// slugAttrs 按优先级列出可能携带电影 slug 的属性
var slugAttrs = []string{"data-film-slug", "data-item-slug", "data-target-link"}

// Scraper 按页抓取 {base}/{user}/films/ratings/page/{n}/。
// 每批并发抓取 Workers 页，再按页码顺序合并，遇到第一个没有数据的页面即停止。
// 网络或解析失败等同于“没有更多数据”，只记录日志。
type Scraper struct {
	cfg    Config
	client *http.Client
}

// NewScraper 创建抓取器，httpClient 为 nil 时按 cfg.Timeout 新建。
func NewScraper(cfg Config, httpClient *http.Client) *Scraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Scraper{cfg: cfg, client: httpClient}
}

type page struct {
	films []core.RatedMovie
	ok    bool
}

// Ratings 返回用户的评分历史，顺序与页面一致。评分无法解析的条目 HasRating 为 false。
func (s *Scraper) Ratings(ctx context.Context, username string) ([]core.RatedMovie, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, "/?#") {
		return nil, core.InvalidInput(core.ModuleRatings, nil, "invalid username %q", username)
	}

	var out []core.RatedMovie
	for start := 1; start <= s.cfg.MaxPages; start += s.cfg.Workers {
		end := min(start+s.cfg.Workers-1, s.cfg.MaxPages)
		pages := make([]page, end-start+1)

		eg, egCtx := errgroup.WithContext(ctx)
		for n := start; n <= end; n++ {
			n := n
			eg.Go(func() error {
				pages[n-start] = s.fetchPage(egCtx, username, n)
				return nil
			})
		}
		_ = eg.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, p := range pages {
			if !p.ok {
				log.Debug().Str("user", username).Int("page", start+i).Int("films", len(out)).Msg("rating history ends")
				return out, nil
			}
			out = append(out, p.films...)
		}
	}
	return out, nil
}

func (s *Scraper) pageURL(username string, n int) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/" + url.PathEscape(username) + "/films/ratings/page/" + strconv.Itoa(n) + "/"
}

func (s *Scraper) fetchPage(ctx context.Context, username string, n int) page {
	endpoint := s.pageURL(username, n)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page{}
	}
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", endpoint).Msg("rating page fetch failed")
		return page{}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("url", endpoint).Msg("rating page not available")
		return page{}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		log.Warn().Err(err).Str("url", endpoint).Msg("rating page parse failed")
		return page{}
	}
	films := ParsePage(doc)
	return page{films: films, ok: len(films) > 0}
}

// ParsePage 解析一页评分列表。页面带错误提示或没有电影列表时返回 nil。
func ParsePage(doc *html.Node) []core.RatedMovie {
	if selErrorMessage.MatchFirst(doc) != nil {
		return nil
	}
	list := selFilmList.MatchFirst(doc)
	if list == nil {
		return nil
	}

	var films []core.RatedMovie
	for _, li := range selEntry.MatchAll(list) {
		poster := selPoster.MatchFirst(li)
		if poster == nil {
			continue
		}
		slug := ""
		for _, attr := range slugAttrs {
			if v := attrValue(poster, attr); v != "" {
				slug = v
				break
			}
		}
		title := TitleFromSlug(slug)
		if title == "" {
			continue
		}

		m := core.RatedMovie{Title: title}
		if span := selRating.MatchFirst(li); span != nil {
			m.Rating, m.HasRating = ParseStars(textContent(span))
		}
		films = append(films, m)
	}
	return films
}

// ParseStars 把星级文本换算成 0-5 分：每个 ★ 计 1 分，½ 计 0.5 分。
func ParseStars(text string) (float64, bool) {
	full := strings.Count(text, "★")
	half := strings.Contains(text, "½")
	if full == 0 && !half {
		return 0, false
	}
	rating := float64(full)
	if half {
		rating += 0.5
	}
	return rating, true
}

// TitleFromSlug 把 "/film/the-dark-knight/" 或 "dune-2021" 还原为展示片名：
// 连字符转空格、首字母大写，并去掉用于消歧的末尾年份。
func TitleFromSlug(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return ""
	}
	words := strings.Fields(strings.ReplaceAll(parts[len(parts)-1], "-", " "))
	if len(words) > 1 && isYear(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return y >= 1870 && y <= time.Now().Year()+2
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

