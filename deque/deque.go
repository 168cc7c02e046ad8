/**
 *
 * 利用数组实现的容器，元素类型为泛型
 * 字段提升过程中用作后进先出的栈：每个时间步读入的对象依次压栈，结束时逆序弹出并释放
 *
 */

package deque

type Deque[T any] interface {
	// 队列的长度
	Size() int

	IsEmpty() bool

	// 在队列结尾增加一个元素
	AddLast(item T)

	// 在队列结尾删除一个元素，队列为空时 ok 为 false
	RemoveLast() (item T, ok bool)

	// 查看队列结尾的元素
	PeekLast() (item T, ok bool)

	// 正向遍历
	Traverse(f func(i int, item T))
}
