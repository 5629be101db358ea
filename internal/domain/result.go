package domain

import "time"

type AnalysisResult struct {
	Markdown string  `json:"markdown"`
	Chunks   []Chunk `json:"chunks,omitempty"`
}

type Chunk struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type,omitempty"`
	Text  string `json:"text"`
	Pages []int  `json:"pages,omitempty"`
}

// UnassignedPipe keys records of events that carry no pipe id. Its leading
// underscore keeps it apart from any pipe id an event can carry.
const UnassignedPipe ID = "_unassigned"

// Record is what gets persisted for a processed card. It never carries the
// attachment bytes.
type Record struct {
	CardID          ID              `json:"card_id"`
	PipeID          ID              `json:"pipe_id"`
	CardTitle       string          `json:"card_title,omitempty"`
	JobID           string          `json:"job_id"`
	ProcessedAt     time.Time       `json:"processed_at"`
	PipelineVersion string          `json:"pipeline_version"`
	Source          Source          `json:"source"`
	Result          *AnalysisResult `json:"result"`
}

type Source struct {
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	PageCount int    `json:"page_count,omitempty"`
}

func (r *Record) Key() (pipeID, cardID ID) {
	pipeID = r.PipeID
	if pipeID == "" {
		pipeID = UnassignedPipe
	}

	return pipeID, r.CardID
}
