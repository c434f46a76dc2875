package model

// Category 导师回复的教学意图分类
// 取值由提示词约束，服务端不做校验，未知取值原样透传
type Category string

const (
	CategoryGeneralInteraction      Category = "general_interaction"
	CategoryConceptualUnderstanding Category = "conceptual_understanding"
	CategoryProceduralDifficulty    Category = "procedural_difficulty"
	CategoryMathAnxiety             Category = "math_anxiety"
	CategoryProblemSolvingStrategy  Category = "problem_solving_strategy"
	CategoryRealWorldConnection     Category = "real_world_connection"
	CategoryCorrectAnswer           Category = "correct_answer"
)

// CategoryInfo 分类信息
type CategoryInfo struct {
	Name        Category `json:"name"`
	Description string   `json:"description"`
}

var categories = []CategoryInfo{
	{CategoryGeneralInteraction, "Greetings, general questions or non-math input"},
	{CategoryConceptualUnderstanding, "Misunderstanding of a mathematical concept"},
	{CategoryProceduralDifficulty, "Struggle with a procedure or step, including partial progress"},
	{CategoryMathAnxiety, "Worry, fear or anxiety about math"},
	{CategoryProblemSolvingStrategy, "Help approaching a problem, or a new problem"},
	{CategoryRealWorldConnection, "Questions about math's practical value"},
	{CategoryCorrectAnswer, "Complete final answer to the entire problem"},
}

// Categories 返回固定分类表（按提示词中的顺序）
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// Known 是否为固定分类之一
func (c Category) Known() bool {
	for _, info := range categories {
		if info.Name == c {
			return true
		}
	}
	return false
}
