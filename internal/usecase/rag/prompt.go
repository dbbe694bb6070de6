package rag

import (
	"fmt"
	"strings"

	"github.com/matzipcloud/matzip/internal/domain/search/query"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// emptyResultsAnswer is returned by Chat when retrieval found nothing;
// the generator is never called in that case.
const emptyResultsAnswer = "죄송합니다. 조건에 맞는 맛집을 찾을 수 없습니다. 다른 조건으로 다시 검색해보시겠어요?"

// systemInstruction constrains the generator to the retrieved venues.
const systemInstruction = `당신은 친절하고 전문적인 맛집 추천 AI 어시스턴트입니다.

다음 규칙을 따라주세요:
1. 주어진 맛집 정보만을 바탕으로 추천해주세요
2. 각 맛집의 특징, 메뉴, 가격대를 간단히 설명해주세요
3. 사용자의 위치와 예산을 고려해주세요
4. 친근하고 자연스러운 톤으로 답변해주세요
5. 추천 맛집은 최대 3-5개 정도로 제한해주세요
6. 각 맛집에 대해 간단한 추천 이유를 함께 제공해주세요`

// buildPrompt wraps the grounding context and the user question into a
// single generation prompt.
func buildPrompt(q *query.Query, candidates []venue.Candidate) string {
	return fmt.Sprintf(`다음은 사용자의 질문에 답변하기 위한 관련 정보입니다:

<context>
%s
</context>

위 정보를 바탕으로 다음 질문에 답변해주세요. 정보에 없는 내용은 추측하지 말고, 주어진 정보 내에서만 답변하세요.

사용자 질문: %s`, buildContext(q, candidates), q.Text())
}

// buildContext renders the ranked venues plus the caller's position and
// budget as grounding text for the generator.
func buildContext(q *query.Query, candidates []venue.Candidate) string {
	var parts []string

	if loc := q.Location(); loc != nil {
		parts = append(parts, fmt.Sprintf("사용자 위치: 위도 %g, 경도 %g", loc.Lat, loc.Lng))
	}
	if budget := q.Budget(); budget != nil {
		parts = append(parts, fmt.Sprintf("사용자 예산: %.0f원", *budget))
	}

	parts = append(parts, "\n검색된 맛집 정보:\n")

	for i := range candidates {
		c := &candidates[i]

		price := "정보 없음"
		if p, ok := c.Price(); ok {
			price = fmt.Sprintf("%.0f", p)
		}
		location := "정보 없음"
		if c.Address() != "" {
			location = c.Address()
		}
		description := c.Description()
		if description == "" {
			description = "설명 없음"
		}
		menu := c.Menu()
		if menu == "" {
			menu = "메뉴 정보 없음"
		}

		parts = append(parts, fmt.Sprintf(`
%d. %s
   - 카테고리: %s
   - 위치: %s
   - 가격대: %s원
   - 설명: %s
   - 메뉴: %s
   - 평점: %.1f점
   - 검색 점수: %.4f`,
			i+1, c.Name(), c.Category(), location, price, description, menu,
			c.Rating(), c.FusedScore()))
	}

	return strings.Join(parts, "\n")
}
