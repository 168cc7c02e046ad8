package deque

const (
	// 数组大小基数
	base = 8
)

type ArrDeque[T any] struct {
	arr []T

	// 元素个数
	size int
	// 容量
	capacity int
}

// 工厂方法
func NewArrDeque[T any](capacity int) *ArrDeque[T] {
	capacity = roundUp(capacity)
	return &ArrDeque[T]{
		arr:      make([]T, capacity),
		size:     0,
		capacity: capacity,
	}
}

func (ad *ArrDeque[T]) Size() int {
	return ad.size
}

func (ad *ArrDeque[T]) IsEmpty() bool {
	return ad.size == 0
}

func (ad *ArrDeque[T]) IsFull() bool {
	return ad.size == ad.capacity
}

func (ad *ArrDeque[T]) AddLast(item T) {
	if ad.IsFull() { // 扩容
		capacity := roundUp(ad.capacity * 2)
		arr := make([]T, capacity)
		copy(arr, ad.arr[:ad.size])
		ad.arr, ad.capacity = arr, capacity
	}
	ad.arr[ad.size] = item
	ad.size++
}

func (ad *ArrDeque[T]) RemoveLast() (T, bool) {
	var zero T
	if ad.IsEmpty() {
		return zero, false
	}
	ad.size--
	item := ad.arr[ad.size]
	ad.arr[ad.size] = zero // 释放引用
	return item, true
}

func (ad *ArrDeque[T]) PeekLast() (T, bool) {
	if ad.IsEmpty() {
		var zero T
		return zero, false
	}
	return ad.arr[ad.size-1], true
}

func (ad *ArrDeque[T]) Traverse(f func(i int, item T)) {
	for i := 0; i < ad.size; i++ {
		f(i, ad.arr[i])
	}
}

func roundUp(capacity int) int {
	if capacity <= 0 {
		return base
	}
	remainder := capacity % base
	if remainder != 0 {
		capacity = capacity - remainder + base
	}
	return capacity
}
