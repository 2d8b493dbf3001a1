// Package xconf 基于 koanf 加载 YAML/JSON 配置，并把某一节展开为 ONS 属性表。
//
// 典型配置文件：
//
//	ons:
//	  GROUP_ID: GID_demo
//	  AccessKey: ak
//	  SecretKey: sk
//	  NAMESRV_ADDR: 127.0.0.1:9876
//
//	cfg, _ := xconf.New("/etc/onsctl/config.yaml")
//	props, _ := xconf.Properties(cfg, "ons")
//
// # 热重载
//
// [Watcher] 监视配置文件所在目录（兼容 vim/emacs 的原子写入），
// 防抖后调用 Reload 并回调。Run 阻塞到 ctx 结束，可直接交给 xrun.Group。
// 从字节数据创建的 Config 不支持监视。
package xconf
