// Package netra 汇集嵌入式工具链常用的两类独立能力：
//
//   - server：极简多客户端 TCP 服务器。单独一个 goroutine 负责
//     accept，注册表以裸 socket fd 记录在线客户端，收发原语直接
//     作用于调用方提供的 fd，流之上不定义任何消息边界。
//   - fileio / pattern：字节级文件改写与检查引擎。分块流式的
//     子串定位、带位移的定位插入、不改变大小的原地覆盖、
//     pattern 锚定的"替换尾部或追加"，超大文件无需整体载入内存。
//
// 两部分互不依赖；把收到的字节落盘之类的组合属于应用层。
// textutil 与 sigutil 是随库携带的小工具。
package netra
