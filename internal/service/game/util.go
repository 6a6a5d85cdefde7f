package game

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// Random 是房间使用的全部随机性来源：抽词、选卧底、白板判定、打乱发言顺序
type Random interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// WordSource 每局提供一对词语
type WordSource interface {
	Draw(rng Random) WordPair
}

// math/rand/v2 的包级函数可以被多个房间协程并发调用
type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

func (globalRandom) Float64() float64 { return rand.Float64() }

func (globalRandom) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

func NewRandom() Random {
	return globalRandom{}
}
