// 移动端与桌面端都会编译的部分：
// ebitenmobile 绑定需要至少一个导出符号，普通构建时本包也不能为空。
package mobile

import "github.com/decker502/antpath/pkg/game"

// DataSource 移动端启动时加载的数据源（没有可选择的本地文件，使用嵌入的示例轨迹）
const DataSource = game.EmbedPrefix + "sample.csv"

// Dummy 空导出函数，供 ebitenmobile 识别本包
func Dummy() {}
