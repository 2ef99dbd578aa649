package model

type CardFace struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// MemoryCard 概念卡片，正面提问，背面解释
type MemoryCard struct {
	Category string   `json:"category"`
	Front    CardFace `json:"front"`
	Back     CardFace `json:"back"`
}
