package poem

// Poem 一首诗词
type Poem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Default 接口不可用时使用的默认诗词
func Default() Poem {
	return Poem{
		Title:   "终南别业",
		Content: "行到水穷处，坐看云起时。",
		Author:  "王维",
	}
}

// Empty reports whether the poem has no content to draw
func (p Poem) Empty() bool {
	return p.Content == ""
}

// Result is the outcome of one fetch. Fallback results carry the default
// poem and the reason the remote one was rejected.
type Result struct {
	Poem     Poem
	Fallback bool
	Reason   error
}

// OK reports whether the poem came from the remote service
func (r Result) OK() bool {
	return !r.Fallback
}

// Source 诗词来源标识
func (r Result) Source() string {
	if r.Fallback {
		return "fallback"
	}
	return "remote"
}

// oneResponse 今日诗词 one.json 响应
type oneResponse struct {
	Status string `json:"status"`
	Data   struct {
		Content string `json:"content"`
		Origin  struct {
			Title  string `json:"title"`
			Author string `json:"author"`
		} `json:"origin"`
	} `json:"data"`
	ErrCode    string `json:"errCode"`
	ErrMessage string `json:"errMessage"`
}
