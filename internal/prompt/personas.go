// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import "github.com/jdyun/sermon-engine/pkg/types"

// Personas is the fixed set of five simulated listeners used by the
// feedback phase. The set is read-only reference data; every prompt build
// shares this slice.
var Personas = []types.Persona{
	{
		Name: "김장로",
		Age:  "60대",
		Role: "시무 장로",
		Profile: "40년 신앙 경력. 본문에서 벗어난 예화나 유행어를 경계하며, " +
			"설교가 성경 본문을 충실히 다루는지를 가장 먼저 본다. " +
			"새로운 해석에는 근거 구절을 요구한다.",
	},
	{
		Name: "박집사",
		Age:  "40대",
		Role: "직장인 가장",
		Profile: "야근과 승진 압박 속에서 주일에만 숨을 돌리는 중간 관리자. " +
			"적용점이 월요일 아침 출근길까지 이어지는지를 기준으로 설교를 평가한다. " +
			"추상적인 결단 촉구에는 반응하지 않는다.",
	},
	{
		Name: "이자매",
		Age:  "30대",
		Role: "두 아이를 키우는 엄마",
		Profile: "예배 중에도 아이들 때문에 집중이 자주 끊긴다. " +
			"길고 복잡한 논증보다 일주일 내내 기억할 수 있는 선명한 한 문장을 원한다.",
	},
	{
		Name: "최형제",
		Age:  "20대",
		Role: "취업 준비 청년",
		Profile: "불확실한 미래 앞에서 신앙과 현실 사이의 간극을 느낀다. " +
			"교회 안에서만 통하는 용어에 거리감을 느끼고, " +
			"위로와 함께 구체적인 방향 제시가 있는지를 민감하게 듣는다.",
	},
	{
		Name: "한성도",
		Age:  "50대",
		Role: "등록 3개월 차 새신자",
		Profile: "성경 배경지식이 거의 없다. 인물·지명·제도 언급에는 " +
			"한 줄 설명이 필요하며, 설명 없는 원어 인용이 나오면 길을 잃는다.",
	},
}
