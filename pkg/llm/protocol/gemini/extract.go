package gemini

import (
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/core"
)

// Checkpoint 响应提取的检查点，按检查顺序排列
type Checkpoint int

const (
	CheckpointCandidates      Checkpoint = iota + 1 // 缺少 candidates
	CheckpointCandidatesEmpty                       // candidates 为空数组
	CheckpointContent                               // 第一个 candidate 缺少 content
	CheckpointParts                                 // content 缺少 parts
	CheckpointPartsEmpty                            // parts 为空数组
	CheckpointText                                  // 第一个 part 缺少 text
)

var checkpointMessages = map[Checkpoint]string{
	CheckpointCandidates:      "no candidates found in the response",
	CheckpointCandidatesEmpty: "the candidates array be empty",
	CheckpointContent:         "no 'content' in the first candidate",
	CheckpointParts:           "no 'parts' in content",
	CheckpointPartsEmpty:      "'parts' be empty",
	CheckpointText:            "no 'text' in the part",
}

var checkpointFields = map[Checkpoint]string{
	CheckpointCandidates:      "candidates",
	CheckpointCandidatesEmpty: "candidates",
	CheckpointContent:         "candidates[0].content",
	CheckpointParts:           "candidates[0].content.parts",
	CheckpointPartsEmpty:      "candidates[0].content.parts",
	CheckpointText:            "candidates[0].content.parts[0].text",
}

// String 返回检查点的固定描述
func (c Checkpoint) String() string {
	if msg, ok := checkpointMessages[c]; ok {
		return msg
	}
	return "unknown checkpoint"
}

// Field 返回检查点对应的字段路径
func (c Checkpoint) Field() string {
	return checkpointFields[c]
}

// ExtractError 响应缺少预期字段
type ExtractError struct {
	Checkpoint Checkpoint
}

func (e *ExtractError) Error() string {
	return e.Checkpoint.String()
}

// ExtractText 从 generateContent 响应中取出 candidates[0].content.parts[0].text
//
// text 原样返回，不做裁剪。失败时返回包装了 *ExtractError 的 *llm.ResponseError。
func ExtractText(resp map[string]any) (string, error) {
	candidates, ok := core.GetArray(resp["candidates"])
	if !ok {
		return "", fail(CheckpointCandidates)
	}
	if len(candidates) == 0 {
		return "", fail(CheckpointCandidatesEmpty)
	}

	candidate, _ := core.GetObject(candidates[0])
	content, ok := core.GetObject(candidate["content"])
	if !ok {
		return "", fail(CheckpointContent)
	}

	parts, ok := core.GetArray(content["parts"])
	if !ok {
		return "", fail(CheckpointParts)
	}
	if len(parts) == 0 {
		return "", fail(CheckpointPartsEmpty)
	}

	part, _ := core.GetObject(parts[0])
	text, ok := part["text"].(string)
	if !ok {
		return "", fail(CheckpointText)
	}

	return text, nil
}

func fail(c Checkpoint) error {
	return llm.NewResponseError(c.Field(), &ExtractError{Checkpoint: c})
}
