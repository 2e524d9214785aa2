package server

// Server объединяет HTTP серверы отдельных зон: игровую (/gifts) и служебную (/nft).
type Server struct {
	GiftServer
	NftServer
}

func NewServer(
	giftServer GiftServer,
	nftServer NftServer,
) Server {
	return Server{
		GiftServer: giftServer,
		NftServer:  nftServer,
	}
}
