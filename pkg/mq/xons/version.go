package xons

// Version 客户端版本号，OpenMessaging 接入点的 Version() 返回此值。
const Version = "1.0.0"
