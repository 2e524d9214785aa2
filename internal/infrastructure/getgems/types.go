package getgems

type envelope[T any] struct {
	Success  bool `json:"success"`
	Response struct {
		Items  []T     `json:"items"`
		Cursor *string `json:"cursor"`
	} `json:"response"`
}

type Attribute struct {
	TraitType string `json:"traitType"`
	Value     string `json:"value"`
}

type Sale struct {
	Type            string `json:"type"`
	FullPrice       string `json:"fullPrice"` // nanoTON
	Currency        string `json:"currency"`
	ContractType    string `json:"contractType"`
	ContractAddress string `json:"contractAddress"`
}

// NftOnSale — элемент /v1/nfts/on-sale/{collection}.
type NftOnSale struct {
	Address            string      `json:"address"`
	Kind               string      `json:"kind"`
	CollectionAddress  string      `json:"collectionAddress"`
	OwnerAddress       string      `json:"ownerAddress"`
	ActualOwnerAddress string      `json:"actualOwnerAddress"`
	Image              string      `json:"image"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Attributes         []Attribute `json:"attributes"`
	Sale               *Sale       `json:"sale"`
}

type Collection struct {
	Address      string `json:"address"`
	OwnerAddress string `json:"ownerAddress"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image"`
}
